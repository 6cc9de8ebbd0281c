package higgsfield_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"higgsctl/internal/higgsfield"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) { return string(s), nil }

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadVideoHandshake(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	var uploadedBody string

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	record := func(r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
	}
	mux.HandleFunc("POST /video", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("create call auth = %q", got)
		}
		var body struct {
			MimeType string `json:"mimetype"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MimeType != "video/quicktime" {
			t.Errorf("mimetype = %q err=%v", body.MimeType, err)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":         "vid-1",
			"url":        "https://cdn.example/vid-1.mp4",
			"upload_url": server.URL + "/presigned/vid-1",
		})
	})
	mux.HandleFunc("PUT /presigned/vid-1", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("presigned PUT must not carry bearer auth, got %q", got)
		}
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		uploadedBody = string(data)
		mu.Unlock()
	})
	mux.HandleFunc("POST /video/vid-1/upload", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusOK)
	})

	client := higgsfield.NewClient(staticTokens("tok"), higgsfield.WithBaseURL(server.URL))
	path := writeTempFile(t, "clip.mov", "movie bytes")

	ref, err := client.UploadVideo(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadVideo: %v", err)
	}
	if ref.ID != "vid-1" || ref.URL != "https://cdn.example/vid-1.mp4" || ref.Type != higgsfield.MediaVideoInput {
		t.Errorf("unexpected reference %+v", ref)
	}
	if uploadedBody != "movie bytes" {
		t.Errorf("uploaded body = %q", uploadedBody)
	}

	want := []string{"POST /video", "PUT /presigned/vid-1", "POST /video/vid-1/upload"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestUploadVideoMissingFile(t *testing.T) {
	client := higgsfield.NewClient(staticTokens("tok"))
	if _, err := client.UploadVideo(context.Background(), filepath.Join(t.TempDir(), "absent.mp4")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestUploadAudioSendsNameAndExtension(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /audio", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name      string `json:"name"`
			Extension string `json:"extension"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Name != "sample" || body.Extension != "mp3" {
			t.Errorf("create audio body = %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":         "aud-1",
			"url":        "https://cdn.example/aud-1.mp3",
			"upload_url": server.URL + "/presigned/aud-1",
		})
	})
	mux.HandleFunc("PUT /presigned/aud-1", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "audio/mpeg" {
			t.Errorf("content type fallback = %q, want audio/mpeg", got)
		}
	})
	mux.HandleFunc("POST /audio/aud-1/upload", func(w http.ResponseWriter, r *http.Request) {})

	client := higgsfield.NewClient(staticTokens("tok"), higgsfield.WithBaseURL(server.URL))
	ref, err := client.UploadAudio(context.Background(), writeTempFile(t, "sample.mp3", "audio"))
	if err != nil {
		t.Fatalf("UploadAudio: %v", err)
	}
	if ref.Type != higgsfield.MediaAudioInput {
		t.Errorf("type = %q", ref.Type)
	}
}

func TestGenerateTTSSubmitsAndPolls(t *testing.T) {
	var polls int
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /jobs/text2speech", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Params map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Params["prompt"] != "Hey Ada!" || body.Params["voice_id"] != "voice-9" {
			t.Errorf("tts params = %+v", body.Params)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "project-1",
			"job_sets": []map[string]any{
				{"id": "set-1", "jobs": []map[string]any{{"id": "tts-job-1"}}},
			},
		})
	})
	mux.HandleFunc("GET /jobs/tts-job-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := "processing"
		if polls >= 2 {
			status = "completed"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "tts-job-1",
			"status": status,
			"results": map[string]any{
				"raw": map[string]any{"url": "https://cdn.example/tts.mp3"},
			},
		})
	})

	client := higgsfield.NewClient(staticTokens("tok"),
		higgsfield.WithBaseURL(server.URL),
		higgsfield.WithPolling(time.Millisecond, time.Second, time.Second))

	snapshot, err := client.GenerateTTS(context.Background(), "Hey Ada!", "voice-9")
	if err != nil {
		t.Fatalf("GenerateTTS: %v", err)
	}
	if snapshot.Status != higgsfield.StatusCompleted {
		t.Errorf("status = %q", snapshot.Status)
	}
	url, err := higgsfield.ResultURL(snapshot)
	if err != nil || url != "https://cdn.example/tts.mp3" {
		t.Errorf("result url = %q err=%v", url, err)
	}
}

func TestSubmitLipsyncSendsReferencesAndSeed(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /jobs/sync-so", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Params     map[string]any `json:"params"`
			ClientMeta map[string]any `json:"client_meta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.ClientMeta == nil {
			t.Error("client_meta missing")
		}
		if seed, ok := body.Params["seed"].(float64); !ok || seed != 424242 {
			t.Errorf("seed = %v", body.Params["seed"])
		}
		video := body.Params["input_video"].(map[string]any)
		audio := body.Params["input_audio"].(map[string]any)
		if video["id"] != "vid-1" || audio["type"] != "text2speech_job" {
			t.Errorf("inputs video=%v audio=%v", video, audio)
		}
		if body.Params["type"] != "sync-so" || body.Params["quality"] != "high" {
			t.Errorf("fixed params = %v", body.Params)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "sync-job-1"})
	})
	mux.HandleFunc("GET /jobs/sync-job-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "sync-job-1",
			"status":  "completed",
			"results": map[string]any{"video": map[string]any{"url": "https://cdn.example/out.mp4"}},
		})
	})

	client := higgsfield.NewClient(staticTokens("tok"),
		higgsfield.WithBaseURL(server.URL),
		higgsfield.WithPolling(time.Millisecond, time.Second, time.Second),
		higgsfield.WithSeedFunc(func() int64 { return 424242 }))

	video := higgsfield.MediaReference{ID: "vid-1", URL: "https://cdn/v", Type: higgsfield.MediaVideoInput}
	audio := higgsfield.MediaReference{ID: "tts-1", URL: "https://cdn/a", Type: higgsfield.MediaTTSJob}
	snapshot, err := client.SubmitLipsync(context.Background(), video, audio)
	if err != nil {
		t.Fatalf("SubmitLipsync: %v", err)
	}
	if snapshot.ID != "sync-job-1" {
		t.Errorf("job id = %q", snapshot.ID)
	}
}

func TestHTTPFailureMapsToTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "token expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := higgsfield.NewClient(staticTokens("tok"), higgsfield.WithBaseURL(server.URL))
	_, err := client.User(context.Background())
	if !errors.Is(err, higgsfield.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var statusErr *higgsfield.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", statusErr.StatusCode)
	}
}

func TestPollVoiceCloneUsesListing(t *testing.T) {
	var polls int
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("GET /voice-clone", func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := "processing"
		if polls >= 3 {
			status = "ready"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "other", "status": "ready"},
				{"id": "clone-1", "status": status, "name": "Kishore"},
			},
			"has_more": false,
		})
	})

	client := higgsfield.NewClient(staticTokens("tok"),
		higgsfield.WithBaseURL(server.URL),
		higgsfield.WithPolling(time.Millisecond, time.Second, time.Second))

	clone, err := client.PollVoiceClone(context.Background(), "clone-1")
	if err != nil {
		t.Fatalf("PollVoiceClone: %v", err)
	}
	if clone.Status != higgsfield.StatusReady || clone.Name != "Kishore" {
		t.Errorf("clone = %+v", clone)
	}
}

func TestPollVoiceCloneUnknownIDFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{}})
	}))
	defer server.Close()

	client := higgsfield.NewClient(staticTokens("tok"),
		higgsfield.WithBaseURL(server.URL),
		higgsfield.WithPolling(time.Millisecond, time.Second, time.Second))

	_, err := client.PollVoiceClone(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
