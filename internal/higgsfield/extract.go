package higgsfield

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// The remote API's result payload shape is inconsistent across job types, so
// extraction is an ordered list of strategies tried in sequence. Each returns
// the first match it can claim; the order is part of the client contract.
type urlStrategy struct {
	name string
	fn   func(Snapshot) (string, bool)
}

var resultURLStrategies = []urlStrategy{
	// TTS jobs report results.raw.url (and results.sfx.url).
	{name: "results.raw.url", fn: func(s Snapshot) (string, bool) {
		if s.Results == nil {
			return "", false
		}
		raw, ok := s.Results["raw"].(map[string]any)
		if !ok {
			return "", false
		}
		return stringValue(raw["url"])
	}},
	{name: "results.url", fn: func(s Snapshot) (string, bool) {
		if s.Results == nil {
			return "", false
		}
		return stringValue(s.Results["url"])
	}},
	// Lipsync jobs nest the output one level deeper; take the first value
	// that is either a dict with a url key or an http(s) string. Keys are
	// visited in sorted order so the scan is deterministic.
	{name: "results scan", fn: func(s Snapshot) (string, bool) {
		if s.Results == nil {
			return "", false
		}
		for _, key := range sortedKeys(s.Results) {
			switch value := s.Results[key].(type) {
			case map[string]any:
				if url, ok := stringValue(value["url"]); ok {
					return url, true
				}
			case string:
				if strings.HasPrefix(value, "http") {
					return value, true
				}
			}
		}
		return "", false
	}},
	// Some job types report a singular result object instead. Only consulted
	// when results is absent entirely.
	{name: "result.url", fn: func(s Snapshot) (string, bool) {
		if s.Results != nil || s.Result == nil {
			return "", false
		}
		return stringValue(s.Result["url"])
	}},
}

// ResultURL locates the output URL inside a completed job's results payload.
func ResultURL(snapshot Snapshot) (string, error) {
	for _, strategy := range resultURLStrategies {
		if url, ok := strategy.fn(snapshot); ok {
			return url, nil
		}
	}
	return "", fmt.Errorf("%w: no URL in payload: %s", ErrExtraction, dumpPayload(snapshot))
}

func stringValue(value any) (string, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func dumpPayload(snapshot Snapshot) string {
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return "<unencodable>"
	}
	return truncate(string(encoded), maxErrorBody)
}

// submitResponse is the envelope returned by job submission endpoints:
// {id: project_id, job_sets: [{id: set_id, jobs: [{id: job_id}]}]}. The job
// id inside jobs[] is the one to poll at /jobs/{id}.
type submitResponse struct {
	ID       string `json:"id"`
	JobSetID string `json:"job_set_id"`
	JobSets  []struct {
		ID   string `json:"id"`
		Jobs []struct {
			ID string `json:"id"`
		} `json:"jobs"`
	} `json:"job_sets"`
}

func (r submitResponse) jobID() (string, error) {
	if len(r.JobSets) > 0 {
		if jobs := r.JobSets[0].Jobs; len(jobs) > 0 && jobs[0].ID != "" {
			return jobs[0].ID, nil
		}
		if r.JobSets[0].ID != "" {
			return r.JobSets[0].ID, nil
		}
	}
	if r.ID != "" {
		return r.ID, nil
	}
	if r.JobSetID != "" {
		return r.JobSetID, nil
	}
	return "", fmt.Errorf("%w: no job id in submit response", ErrExtraction)
}
