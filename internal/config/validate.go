package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateLipsync(); err != nil {
		return err
	}
	if err := c.validatePolling(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateService() error {
	for field, value := range map[string]string{
		"service.base_url":       c.Service.BaseURL,
		"service.clerk_base_url": c.Service.ClerkBaseURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", field, value)
		}
	}
	return nil
}

func (c *Config) validateTTS() error {
	if strings.TrimSpace(c.TTS.VoiceID) == "" {
		return errors.New("tts.voice_id must be set")
	}
	if c.TTS.Speed <= 0 {
		return errors.New("tts.speed must be positive")
	}
	for field, value := range map[string]int{
		"tts.similarity_boost": c.TTS.SimilarityBoost,
		"tts.style":            c.TTS.Style,
		"tts.stability":        c.TTS.Stability,
	} {
		if value < 0 || value > 100 {
			return fmt.Errorf("%s must be between 0 and 100", field)
		}
	}
	return nil
}

func (c *Config) validateLipsync() error {
	switch c.Lipsync.Quality {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("lipsync.quality must be low, medium, or high, got %q", c.Lipsync.Quality)
	}
	if c.Lipsync.Temperature < 0 || c.Lipsync.Temperature > 1 {
		return errors.New("lipsync.temperature must be between 0 and 1")
	}
	return nil
}

func (c *Config) validatePolling() error {
	if c.Polling.Interval > c.Polling.MaxWait {
		return errors.New("polling.interval must not exceed polling.max_wait")
	}
	if c.Polling.Interval > c.Polling.CloneMaxWait {
		return errors.New("polling.interval must not exceed polling.clone_max_wait")
	}
	return nil
}
