package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"username":             "tester",
			"subscription_credits": 42.0,
			"plan_type":            "pro",
		})
	})
	mux.HandleFunc("GET /voices/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"id": "voice-1", "name": "Narrator", "description": "Warm narrator voice"},
		})
	})
	mux.HandleFunc("GET /voice-clone", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "clone-1", "name": "My Voice", "status": "ready", "is_internal": false},
			},
			"has_more": false,
		})
	})
	mux.HandleFunc("GET /jobs/job-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "job-1",
			"status": "completed",
			"results": map[string]any{
				"raw": map[string]any{"url": "https://cdn.example/result.mp4"},
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestVoicesCommandRendersTable(t *testing.T) {
	server := newAPIServer(t)
	cfgPath := writeTestConfig(t, server.URL)

	out, err := runCLI(t, "voices", "--config", cfgPath, "--token", "static-token")
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	requireContains(t, out, "voice-1")
	requireContains(t, out, "Narrator")
	requireContains(t, out, "1 voices")
}

func TestCreditsCommandShowsBalance(t *testing.T) {
	server := newAPIServer(t)
	cfgPath := writeTestConfig(t, server.URL)

	out, err := runCLI(t, "credits", "--config", cfgPath, "--token", "static-token")
	if err != nil {
		t.Fatalf("credits: %v", err)
	}
	requireContains(t, out, "tester")
	requireContains(t, out, "pro")
	requireContains(t, out, "42")
}

func TestListClonesCommand(t *testing.T) {
	server := newAPIServer(t)
	cfgPath := writeTestConfig(t, server.URL)

	out, err := runCLI(t, "list-clones", "--config", cfgPath, "--token", "static-token")
	if err != nil {
		t.Fatalf("list-clones: %v", err)
	}
	requireContains(t, out, "clone-1")
	requireContains(t, out, "ready")
}

func TestStatusCommandPrintsResultURL(t *testing.T) {
	server := newAPIServer(t)
	cfgPath := writeTestConfig(t, server.URL)

	out, err := runCLI(t, "status", "--job-id", "job-1", "--config", cfgPath, "--token", "static-token")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, `"status": "completed"`)
	requireContains(t, out, "Result URL: https://cdn.example/result.mp4")
}

func TestStatusCommandRequiresJobID(t *testing.T) {
	server := newAPIServer(t)
	cfgPath := writeTestConfig(t, server.URL)

	_, err := runCLI(t, "status", "--config", cfgPath, "--token", "static-token")
	if err == nil {
		t.Fatal("expected error without --job-id")
	}
	requireContains(t, err.Error(), "--job-id is required")
}

func TestCommandsRequireCredentials(t *testing.T) {
	server := newAPIServer(t)
	cfgPath := writeTestConfig(t, server.URL)
	t.Setenv("HIGGSFIELD_TOKEN", "")
	t.Setenv("HIGGSFIELD_CLIENT_COOKIE", "")

	_, err := runCLI(t, "voices", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	requireContains(t, err.Error(), "no authentication provided")
}
