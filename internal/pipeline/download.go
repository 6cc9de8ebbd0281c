package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"higgsctl/internal/higgsfield"
)

// Downloader streams remote files to disk. Files land under a temporary name
// in the destination directory and are renamed into place on success, so a
// failed or interrupted download never leaves a half-written artifact at the
// final path.
type Downloader struct {
	client   *http.Client
	progress bool
}

// NewDownloader builds a downloader. A nil client gets a default without a
// timeout, since result files can be large. Progress rendering is for
// interactive terminals; leave it off elsewhere.
func NewDownloader(client *http.Client, progress bool) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{client: client, progress: progress}
}

// Fetch downloads url to dest.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", higgsfield.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: download returned status %d", higgsfield.ErrTransport, resp.StatusCode)
	}

	dir := filepath.Dir(dest)
	temp, err := os.CreateTemp(dir, ".higgsctl-download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempName := temp.Name()
	cleanup := func() {
		temp.Close()
		os.Remove(tempName)
	}

	var writer io.Writer = temp
	if d.progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(dest))
		writer = io.MultiWriter(temp, bar)
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		cleanup()
		return fmt.Errorf("download body: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempName, dest); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("move download into place: %w", err)
	}
	return nil
}
