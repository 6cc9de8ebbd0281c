// Package pipeline sequences the full lipsync run: acquire the input video,
// acquire the input audio, submit the lipsync transform, and download the
// result. Each stage feeds the next and is skippable when the caller already
// supplies its output; any stage failure aborts the whole run with no retry
// and no resumption.
package pipeline
