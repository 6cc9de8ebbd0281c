package higgsfield

import "strings"

// MediaType identifies what an uploaded or generated asset is used for.
type MediaType string

const (
	MediaVideoInput MediaType = "video_input"
	MediaAudioInput MediaType = "audio_input"
	MediaTTSJob     MediaType = "text2speech_job"
)

// MediaReference is a registered, service-hosted pointer to an uploaded or
// generated media asset. Immutable once created; the URL is only guaranteed
// reachable until the consuming job has started.
type MediaReference struct {
	ID   string    `json:"id"`
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}

// Status is a remote job status value.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusErrored    Status = "error"
	StatusCancelled  Status = "cancelled"
	StatusReady      Status = "ready"
	StatusUnknown    Status = "unknown"
)

// Snapshot is the state of a remote job at one poll. Snapshots are not cached
// or merged; only the latest matters.
type Snapshot struct {
	ID         string         `json:"id"`
	Status     Status         `json:"status"`
	JobSetType string         `json:"job_set_type"`
	CreatedAt  string         `json:"created_at"`
	Results    map[string]any `json:"results"`
	Result     map[string]any `json:"result"`
	Error      string         `json:"error"`
	Detail     string         `json:"detail"`
}

// FailureReason returns the remote-supplied reason for a failed job, or a
// default string when the payload carries none.
func (s Snapshot) FailureReason() string {
	if reason := strings.TrimSpace(s.Error); reason != "" {
		return reason
	}
	if reason := strings.TrimSpace(s.Detail); reason != "" {
		return reason
	}
	return "Unknown error"
}

// Voice is a text-to-speech voice offered by the service.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// VoiceClone is a user-created or built-in cloned voice.
type VoiceClone struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     Status `json:"status"`
	IsInternal bool   `json:"is_internal"`
	Error      string `json:"error"`
}

// FailureReason mirrors Snapshot.FailureReason for clone listings.
func (c VoiceClone) FailureReason() string {
	if reason := strings.TrimSpace(c.Error); reason != "" {
		return reason
	}
	return "Unknown error"
}

// User describes the authenticated account and its credit balance.
type User struct {
	Username            string  `json:"username"`
	SubscriptionCredits float64 `json:"subscription_credits"`
	PlanType            string  `json:"plan_type"`
}
