package higgsfield

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"higgsctl/internal/logging"
)

// PollSpec parameterizes the generic fixed-interval poller for one job
// vocabulary. Transform jobs and voice clones share the loop shape but differ
// in terminal status sets, budgets, and where status lives on the snapshot.
type PollSpec[T any] struct {
	// Label names the job kind in log lines and errors.
	Label string
	// Interval is the constant delay between status fetches. No backoff.
	Interval time.Duration
	// MaxWait bounds total wall-clock time before ErrJobTimeout.
	MaxWait time.Duration
	// Success and Failure are the terminal status vocabularies.
	Success []Status
	Failure []Status
	// Status reads the current status from a fetched value.
	Status func(T) Status
	// Reason reads the remote failure reason from a fetched value.
	Reason func(T) string
}

// Poll repeatedly fetches a job's state until it reaches a terminal status or
// the budget elapses. Terminal success returns the final snapshot; terminal
// failure returns it alongside an ErrJobFailed carrying the remote reason;
// exceeding MaxWait returns ErrJobTimeout with the elapsed time. Transport
// errors from fetch propagate immediately.
//
// A status-change log line is emitted once per distinct consecutive status,
// never once per tick.
func Poll[T any](ctx context.Context, logger *slog.Logger, spec PollSpec[T], id string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if logger == nil {
		logger = logging.NewNop()
	}

	start := time.Now()
	var lastStatus Status

	for {
		if elapsed := time.Since(start); elapsed > spec.MaxWait {
			return zero, fmt.Errorf("%s %s: %w after %s", spec.Label, id, ErrJobTimeout, elapsed.Round(time.Second))
		}

		value, err := fetch(ctx)
		if err != nil {
			return zero, err
		}

		status := spec.Status(value)
		if status == "" {
			status = StatusUnknown
		}
		if status != lastStatus {
			logger.Info("status change", logging.Args(
				logging.String("kind", spec.Label),
				logging.String("id", id),
				logging.String("status", string(status)),
				logging.Duration("elapsed", time.Since(start).Round(time.Second)),
			)...)
			lastStatus = status
		}

		if containsStatus(spec.Success, status) {
			return value, nil
		}
		if containsStatus(spec.Failure, status) {
			return value, fmt.Errorf("%s %s: %w: %s", spec.Label, id, ErrJobFailed, spec.Reason(value))
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(spec.Interval):
		}
	}
}

func containsStatus(set []Status, status Status) bool {
	for _, candidate := range set {
		if candidate == status {
			return true
		}
	}
	return false
}
