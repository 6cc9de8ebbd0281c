package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"higgsctl/internal/higgsfield"
	"higgsctl/internal/logging"
)

// API is the slice of the Higgsfield client the orchestrator drives.
type API interface {
	UploadVideo(ctx context.Context, path string) (higgsfield.MediaReference, error)
	GenerateTTS(ctx context.Context, script, voiceID string) (higgsfield.Snapshot, error)
	SubmitLipsync(ctx context.Context, video, audio higgsfield.MediaReference) (higgsfield.Snapshot, error)
}

// Request describes one pipeline run.
type Request struct {
	// VideoPath is a local file to upload. Mutually exclusive with VideoURL.
	VideoPath string
	// VideoURL is a remote video to fetch and re-upload so the service holds
	// its own registered copy rather than a bare reference.
	VideoURL string
	// Name personalizes the script and derives the output filename.
	Name string
	// Script is the TTS template; the {name} token is replaced with Name.
	Script string
	// VoiceID selects the TTS voice.
	VoiceID string
	// AudioURL, when set, skips TTS and uses the finished audio directly.
	AudioURL string
	// SkipTTS drops the audio stage entirely; the run then fails at the
	// lipsync stage, which always requires audio.
	SkipTTS bool
	// OutputDir receives the downloaded result.
	OutputDir string
}

// Result is the write-once artifact of a completed run.
type Result struct {
	OutputPath string
	ResultURL  string
	JobID      string
	AudioInput higgsfield.MediaReference
	VideoInput higgsfield.MediaReference
}

// Runner orchestrates pipeline runs against an API client.
type Runner struct {
	api        API
	logger     *slog.Logger
	downloader *Downloader
}

// NewRunner builds a pipeline runner. A nil downloader gets the default.
func NewRunner(api API, logger *slog.Logger, downloader *Downloader) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if downloader == nil {
		downloader = NewDownloader(nil, false)
	}
	return &Runner{api: api, logger: logger, downloader: downloader}
}

// Run executes the four pipeline stages in order. The first failing stage
// aborts the run.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	logger := r.logger.With(logging.String("run_id", uuid.NewString()))

	script := PersonalizeScript(req.Script, req.Name)

	video, err := r.acquireVideo(ctx, logger, req)
	if err != nil {
		return nil, err
	}

	audio, hasAudio, err := r.acquireAudio(ctx, logger, req, script)
	if err != nil {
		return nil, err
	}
	if !hasAudio {
		return nil, errors.New("no audio available: generate TTS or provide an audio URL")
	}

	logger.Info("submitting lipsync",
		logging.String("video_id", video.ID),
		logging.String("audio_id", audio.ID))
	job, err := r.api.SubmitLipsync(ctx, video, audio)
	if err != nil {
		return nil, err
	}

	resultURL, err := higgsfield.ResultURL(job)
	if err != nil {
		return nil, err
	}

	outputPath := filepath.Join(req.OutputDir, OutputFileName(req.Name))
	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	logger.Info("downloading result", logging.String("path", outputPath))
	if err := r.downloader.Fetch(ctx, resultURL, outputPath); err != nil {
		return nil, err
	}

	logger.Info("pipeline complete",
		logging.String("output", outputPath),
		logging.String("job_id", job.ID))
	return &Result{
		OutputPath: outputPath,
		ResultURL:  resultURL,
		JobID:      job.ID,
		AudioInput: audio,
		VideoInput: video,
	}, nil
}

func (r *Runner) acquireVideo(ctx context.Context, logger *slog.Logger, req Request) (higgsfield.MediaReference, error) {
	switch {
	case req.VideoURL != "":
		// Re-upload so the asset is registered as the service's own
		// MediaReference, not merely referenced by URL.
		logger.Info("fetching remote video for re-upload", logging.String("url", req.VideoURL))
		temp := filepath.Join(os.TempDir(), "higgsctl-"+uuid.NewString()+".mp4")
		if err := r.downloader.Fetch(ctx, req.VideoURL, temp); err != nil {
			return higgsfield.MediaReference{}, fmt.Errorf("fetch video url: %w", err)
		}
		defer os.Remove(temp)
		return r.api.UploadVideo(ctx, temp)
	case req.VideoPath != "":
		logger.Info("uploading video", logging.String("path", req.VideoPath))
		return r.api.UploadVideo(ctx, req.VideoPath)
	default:
		return higgsfield.MediaReference{}, errors.New("no video provided: a local path or a video URL is required")
	}
}

func (r *Runner) acquireAudio(ctx context.Context, logger *slog.Logger, req Request, script string) (higgsfield.MediaReference, bool, error) {
	switch {
	case req.AudioURL != "":
		logger.Info("using provided audio url", logging.String("url", req.AudioURL))
		return higgsfield.MediaReference{
			ID:   "provided",
			URL:  req.AudioURL,
			Type: higgsfield.MediaAudioInput,
		}, true, nil
	case req.SkipTTS:
		logger.Info("tts skipped")
		return higgsfield.MediaReference{}, false, nil
	default:
		logger.Info("generating tts audio", logging.String("voice_id", req.VoiceID))
		job, err := r.api.GenerateTTS(ctx, script, req.VoiceID)
		if err != nil {
			return higgsfield.MediaReference{}, false, err
		}
		audioURL, err := higgsfield.ResultURL(job)
		if err != nil {
			return higgsfield.MediaReference{}, false, err
		}
		return higgsfield.MediaReference{
			ID:   job.ID,
			URL:  audioURL,
			Type: higgsfield.MediaTTSJob,
		}, true, nil
	}
}

// PersonalizeScript substitutes the {name} placeholder in a script template.
func PersonalizeScript(script, name string) string {
	return strings.ReplaceAll(script, "{name}", name)
}

// OutputFileName derives the artifact filename from the recipient name:
// spaces become underscores and the result is lower-cased.
func OutputFileName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_")) + ".mp4"
}
