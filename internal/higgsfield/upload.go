package higgsfield

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"higgsctl/internal/logging"
)

var videoMimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
}

var audioMimeTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
	"webm": "audio/webm",
	"flac": "audio/flac",
}

// mediaInfo is the presigned-upload descriptor returned by POST /video and
// POST /audio.
type mediaInfo struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	UploadURL   string `json:"upload_url"`
	ContentType string `json:"content_type"`
}

// UploadVideo registers a video with the service: create the media record,
// PUT the bytes to the presigned URL, then confirm the upload.
func (c *Client) UploadVideo(ctx context.Context, path string) (MediaReference, error) {
	if _, err := os.Stat(path); err != nil {
		return MediaReference{}, fmt.Errorf("upload video: %w", err)
	}

	mimeType, ok := videoMimeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		mimeType = "video/mp4"
	}

	var info mediaInfo
	if err := c.doJSON(ctx, http.MethodPost, "/video", map[string]any{"mimetype": mimeType}, &info); err != nil {
		return MediaReference{}, fmt.Errorf("create video: %w", err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = mimeType
	}
	if err := c.putFile(ctx, info.UploadURL, path, contentType); err != nil {
		return MediaReference{}, fmt.Errorf("upload video: %w", err)
	}

	if err := c.doJSON(ctx, http.MethodPost, "/video/"+info.ID+"/upload", nil, nil); err != nil {
		return MediaReference{}, fmt.Errorf("confirm video upload: %w", err)
	}

	c.logger.Info("video uploaded",
		logging.String("media_id", info.ID),
		logging.String("file", filepath.Base(path)))
	return MediaReference{ID: info.ID, URL: info.URL, Type: MediaVideoInput}, nil
}

// UploadAudio registers an audio file with the service using the same
// create, PUT, confirm handshake as UploadVideo.
func (c *Client) UploadAudio(ctx context.Context, path string) (MediaReference, error) {
	if _, err := os.Stat(path); err != nil {
		return MediaReference{}, fmt.Errorf("upload audio: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var info mediaInfo
	body := map[string]any{"name": name, "extension": ext}
	if err := c.doJSON(ctx, http.MethodPost, "/audio", body, &info); err != nil {
		return MediaReference{}, fmt.Errorf("create audio: %w", err)
	}

	contentType := info.ContentType
	if contentType == "" {
		if fallback, ok := audioMimeTypes[ext]; ok {
			contentType = fallback
		} else {
			contentType = "audio/mpeg"
		}
	}
	if err := c.putFile(ctx, info.UploadURL, path, contentType); err != nil {
		return MediaReference{}, fmt.Errorf("upload audio: %w", err)
	}

	if err := c.doJSON(ctx, http.MethodPost, "/audio/"+info.ID+"/upload", nil, nil); err != nil {
		return MediaReference{}, fmt.Errorf("confirm audio upload: %w", err)
	}

	c.logger.Info("audio uploaded",
		logging.String("media_id", info.ID),
		logging.String("file", filepath.Base(path)))
	return MediaReference{ID: info.ID, URL: info.URL, Type: MediaAudioInput}, nil
}

// putFile streams a file to a presigned URL. The URL authorizes the upload on
// its own; no bearer header is attached.
func (c *Client) putFile(ctx context.Context, url, path, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", contentType)

	resp, err := c.transferClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(resp.StatusCode, nil)
	}
	return nil
}
