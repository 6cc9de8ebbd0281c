package higgsfield

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"higgsctl/internal/logging"
)

const (
	defaultBaseURL     = "https://fnf.higgsfield.ai"
	defaultHTTPTimeout = 30 * time.Second

	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = 10 * time.Minute
	defaultCloneMaxWait = 5 * time.Minute

	maxSeed = 999_999_999
)

// TokenSource supplies a fresh bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TTSParams is the fixed text-to-speech parameter set sent with every job.
type TTSParams struct {
	SimilarityBoost int     `json:"similarity_boost"`
	PresetName      string  `json:"preset_name"`
	Style           int     `json:"style"`
	Speed           float64 `json:"speed"`
	Stability       int     `json:"stability"`
}

// LipsyncParams is the fixed lipsync parameter set sent with every job.
type LipsyncParams struct {
	Quality     string  `json:"quality"`
	Temperature float64 `json:"temperature"`
	SyncMode    string  `json:"sync_mode"`
}

// Client wraps the Higgsfield REST API.
type Client struct {
	baseURL        string
	tokens         TokenSource
	httpClient     *http.Client
	transferClient *http.Client
	logger         *slog.Logger

	pollInterval time.Duration
	maxWait      time.Duration
	cloneMaxWait time.Duration

	ttsParams     TTSParams
	lipsyncParams LipsyncParams

	seed func() int64
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient overrides the default HTTP client for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger. A nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPolling overrides the poll interval and wall-clock budgets.
func WithPolling(interval, maxWait, cloneMaxWait time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if maxWait > 0 {
			c.maxWait = maxWait
		}
		if cloneMaxWait > 0 {
			c.cloneMaxWait = cloneMaxWait
		}
	}
}

// WithTTSParams overrides the fixed TTS parameter set.
func WithTTSParams(params TTSParams) Option {
	return func(c *Client) { c.ttsParams = params }
}

// WithLipsyncParams overrides the fixed lipsync parameter set.
func WithLipsyncParams(params LipsyncParams) Option {
	return func(c *Client) { c.lipsyncParams = params }
}

// WithSeedFunc overrides the lipsync seed source (tests).
func WithSeedFunc(seed func() int64) Option {
	return func(c *Client) {
		if seed != nil {
			c.seed = seed
		}
	}
}

// NewClient constructs a Higgsfield API client.
func NewClient(tokens TokenSource, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		// Presigned uploads move whole media files; no client timeout.
		transferClient: &http.Client{},
		logger:         logging.NewNop(),
		pollInterval:   defaultPollInterval,
		maxWait:        defaultMaxWait,
		cloneMaxWait:   defaultCloneMaxWait,
		ttsParams: TTSParams{
			SimilarityBoost: 90,
			Style:           60,
			Speed:           1.1,
			Stability:       30,
		},
		lipsyncParams: LipsyncParams{
			Quality:     "high",
			Temperature: 0.5,
			SyncMode:    "bounce",
		},
		seed: func() int64 { return rand.Int64N(maxSeed) + 1 },
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// User fetches the authenticated account and its credit balance.
func (c *Client) User(ctx context.Context) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Voices lists the available text-to-speech voices.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	var voices []Voice
	if err := c.doJSON(ctx, http.MethodGet, "/voices/", nil, &voices); err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	return voices, nil
}

// VoiceClones lists all voice clones, built-in and user-created.
func (c *Client) VoiceClones(ctx context.Context) ([]VoiceClone, error) {
	var page struct {
		Items   []VoiceClone `json:"items"`
		HasMore bool         `json:"has_more"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/voice-clone", nil, &page); err != nil {
		return nil, fmt.Errorf("list voice clones: %w", err)
	}
	return page.Items, nil
}

// CloneVoice creates a voice clone from uploaded audio samples.
func (c *Client) CloneVoice(ctx context.Context, samples []MediaReference, name string) (VoiceClone, error) {
	payload := map[string]any{"input_audios": samples}
	if name = strings.TrimSpace(name); name != "" {
		payload["name"] = name
	}

	var clone VoiceClone
	if err := c.doJSON(ctx, http.MethodPost, "/voice-clone", payload, &clone); err != nil {
		return VoiceClone{}, fmt.Errorf("clone voice: %w", err)
	}
	c.logger.Info("voice clone created",
		logging.String("clone_id", clone.ID),
		logging.String("status", string(clone.Status)))
	return clone, nil
}

// PollVoiceClone waits for a voice clone to become ready. The clone listing
// is the status source; a clone id missing from the listing is an error.
func (c *Client) PollVoiceClone(ctx context.Context, cloneID string) (VoiceClone, error) {
	spec := PollSpec[VoiceClone]{
		Label:    "voice clone",
		Interval: c.pollInterval,
		MaxWait:  c.cloneMaxWait,
		Success:  []Status{StatusReady},
		Failure:  []Status{StatusFailed, StatusErrored},
		Status:   func(clone VoiceClone) Status { return clone.Status },
		Reason:   VoiceClone.FailureReason,
	}
	return Poll(ctx, c.logger, spec, cloneID, func(ctx context.Context) (VoiceClone, error) {
		clones, err := c.VoiceClones(ctx)
		if err != nil {
			return VoiceClone{}, err
		}
		for _, clone := range clones {
			if clone.ID == cloneID {
				return clone, nil
			}
		}
		return VoiceClone{}, fmt.Errorf("voice clone %s not found", cloneID)
	})
}

// GetJob fetches the current snapshot for a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (Snapshot, error) {
	var snapshot Snapshot
	if err := c.doJSON(ctx, http.MethodGet, "/jobs/"+jobID, nil, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return snapshot, nil
}

// PollJob waits for a transform job to complete.
func (c *Client) PollJob(ctx context.Context, jobID string) (Snapshot, error) {
	spec := PollSpec[Snapshot]{
		Label:    "job",
		Interval: c.pollInterval,
		MaxWait:  c.maxWait,
		Success:  []Status{StatusCompleted},
		Failure:  []Status{StatusFailed, StatusErrored, StatusCancelled},
		Status:   func(snapshot Snapshot) Status { return snapshot.Status },
		Reason:   Snapshot.FailureReason,
	}
	return Poll(ctx, c.logger, spec, jobID, func(ctx context.Context) (Snapshot, error) {
		return c.GetJob(ctx, jobID)
	})
}

// GenerateTTS submits a text-to-speech job and polls it to completion.
func (c *Client) GenerateTTS(ctx context.Context, script, voiceID string) (Snapshot, error) {
	params := map[string]any{
		"voice_id":         voiceID,
		"sound_id":         "",
		"prompt":           script,
		"similarity_boost": c.ttsParams.SimilarityBoost,
		"preset_name":      c.ttsParams.PresetName,
		"style":            c.ttsParams.Style,
		"speed":            c.ttsParams.Speed,
		"stability":        c.ttsParams.Stability,
	}

	var submitted submitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/jobs/text2speech", map[string]any{"params": params}, &submitted); err != nil {
		return Snapshot{}, fmt.Errorf("submit tts: %w", err)
	}
	jobID, err := submitted.jobID()
	if err != nil {
		return Snapshot{}, fmt.Errorf("submit tts: %w", err)
	}
	c.logger.Info("tts job created", logging.String("job_id", jobID), logging.String("voice_id", voiceID))
	return c.PollJob(ctx, jobID)
}

// SubmitLipsync submits a lipsync job referencing the given video and audio
// and polls it to completion. A random seed breaks reproducibility between
// otherwise identical submissions.
func (c *Client) SubmitLipsync(ctx context.Context, video, audio MediaReference) (Snapshot, error) {
	seed := c.seed()
	params := map[string]any{
		"type":                     "sync-so",
		"quality":                  c.lipsyncParams.Quality,
		"temperature":              c.lipsyncParams.Temperature,
		"sync_mode":                c.lipsyncParams.SyncMode,
		"active_speaker_detection": false,
		"prompt":                   "",
		"enhance":                  false,
		"styleId":                  nil,
		"input_video":              video,
		"input_audio":              audio,
		"input_image":              nil,
		"seed":                     seed,
	}
	body := map[string]any{"params": params, "client_meta": map[string]any{}}

	var submitted submitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/jobs/sync-so", body, &submitted); err != nil {
		return Snapshot{}, fmt.Errorf("submit lipsync: %w", err)
	}
	jobID, err := submitted.jobID()
	if err != nil {
		return Snapshot{}, fmt.Errorf("submit lipsync: %w", err)
	}
	c.logger.Info("lipsync job created", logging.String("job_id", jobID), logging.Int64("seed", seed))
	return c.PollJob(ctx, jobID)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(resp.StatusCode, payload)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
