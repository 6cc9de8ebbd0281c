package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"higgsctl/internal/auth"
	"higgsctl/internal/config"
	"higgsctl/internal/higgsfield"
	"higgsctl/internal/logging"
	"higgsctl/internal/vault"
)

type rootFlags struct {
	config           string
	token            string
	cookieFile       string
	clientCookie     string
	clientCookieFile string
	sessionID        string
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.flags != nil {
			path = strings.TrimSpace(c.flags.config)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: os.Stderr,
		})
	})
	return c.logger, c.loggerErr
}

// tokenManager resolves credentials in priority order: the __client cookie
// (file, then flag, then env) which supports refresh, then a static
// __session JWT (extractor JSON, flag, env).
func (c *commandContext) tokenManager(ctx context.Context) (*auth.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	opts := []auth.Option{
		auth.WithClerkBaseURL(cfg.Service.ClerkBaseURL),
		auth.WithLogger(logger),
	}

	clientCookie := ""
	switch {
	case strings.TrimSpace(c.flags.clientCookieFile) != "":
		clientCookie, err = auth.ReadClientCookieFile(c.flags.clientCookieFile)
		if err != nil {
			return nil, err
		}
	case strings.TrimSpace(c.flags.clientCookie) != "":
		clientCookie = c.flags.clientCookie
	}
	if clientCookie != "" {
		return auth.NewFromClientCookie(ctx, clientCookie, c.flags.sessionID, opts...)
	}

	if strings.TrimSpace(c.flags.cookieFile) != "" {
		token, err := auth.SessionTokenFromFile(c.flags.cookieFile)
		if err != nil {
			return nil, err
		}
		return auth.NewFromStaticToken(token, opts...), nil
	}
	if token := strings.TrimSpace(c.flags.token); token != "" {
		return auth.NewFromStaticToken(token, opts...), nil
	}

	if envCookie := strings.TrimSpace(os.Getenv("HIGGSFIELD_CLIENT_COOKIE")); envCookie != "" {
		return auth.NewFromClientCookie(ctx, envCookie, c.flags.sessionID, opts...)
	}
	if envToken := strings.TrimSpace(os.Getenv("HIGGSFIELD_TOKEN")); envToken != "" {
		return auth.NewFromStaticToken(envToken, opts...), nil
	}

	return nil, errors.New(`no authentication provided; use one of:
  --client-cookie-file <path>   file containing the __client cookie (recommended, auto-refreshes)
  --client-cookie <value>       __client cookie value
  --cookie-file <path>          cookie extractor JSON with the __session cookie
  --token <jwt>                 static session JWT (expires in ~60s)
or set HIGGSFIELD_CLIENT_COOKIE / HIGGSFIELD_TOKEN`)
}

func (c *commandContext) apiClient(ctx context.Context) (*higgsfield.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	tokens, err := c.tokenManager(ctx)
	if err != nil {
		return nil, err
	}

	return higgsfield.NewClient(tokens,
		higgsfield.WithBaseURL(cfg.Service.BaseURL),
		higgsfield.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Service.RequestTimeout) * time.Second,
		}),
		higgsfield.WithLogger(logger),
		higgsfield.WithPolling(
			time.Duration(cfg.Polling.Interval)*time.Second,
			time.Duration(cfg.Polling.MaxWait)*time.Second,
			time.Duration(cfg.Polling.CloneMaxWait)*time.Second,
		),
		higgsfield.WithTTSParams(higgsfield.TTSParams{
			SimilarityBoost: cfg.TTS.SimilarityBoost,
			Style:           cfg.TTS.Style,
			Speed:           cfg.TTS.Speed,
			Stability:       cfg.TTS.Stability,
		}),
		higgsfield.WithLipsyncParams(higgsfield.LipsyncParams{
			Quality:     cfg.Lipsync.Quality,
			Temperature: cfg.Lipsync.Temperature,
			SyncMode:    cfg.Lipsync.SyncMode,
		}),
	), nil
}

func (c *commandContext) vaultClient() (*vault.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return vault.New(vault.Config{
		SupabaseURL: cfg.Vault.SupabaseURL,
		SupabaseKey: cfg.Vault.SupabaseKey,
		Email:       cfg.Vault.Email,
		Password:    cfg.Vault.Password,
		Key:         cfg.Vault.Key,
	}, vault.WithLogger(logger))
}

// verifyAuth makes one authenticated call so credential problems surface
// before any media is uploaded.
func verifyAuth(ctx context.Context, api *higgsfield.Client) (higgsfield.User, error) {
	user, err := api.User(ctx)
	if err != nil {
		var statusErr *higgsfield.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 401 {
			return higgsfield.User{}, fmt.Errorf("authentication rejected (401): the session token has likely expired; re-export cookies or use --client-cookie-file for auto-refresh")
		}
		return higgsfield.User{}, fmt.Errorf("verify authentication: %w", err)
	}
	return user, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
