// Package higgsfield is a client for the Higgsfield media generation API.
//
// It covers the media upload handshake (create, PUT to the presigned URL,
// confirm), job submission for text-to-speech and lipsync, voice cloning, and
// the generic fixed-interval job poller shared by every asynchronous job
// type. Result payload shapes vary between job types; ResultURL hides the
// fallback order behind an ordered strategy list.
package higgsfield
