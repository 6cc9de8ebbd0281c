package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Service contains the Higgsfield API endpoints and timing.
type Service struct {
	BaseURL        string `toml:"base_url"`
	ClerkBaseURL   string `toml:"clerk_base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// TTS contains text-to-speech defaults for the pipeline.
type TTS struct {
	VoiceID         string  `toml:"voice_id"`
	Script          string  `toml:"script"`
	SimilarityBoost int     `toml:"similarity_boost"`
	Style           int     `toml:"style"`
	Speed           float64 `toml:"speed"`
	Stability       int     `toml:"stability"`
}

// Lipsync contains the fixed lipsync job parameter set.
type Lipsync struct {
	Quality     string  `toml:"quality"`
	Temperature float64 `toml:"temperature"`
	SyncMode    string  `toml:"sync_mode"`
}

// Polling contains job polling intervals and budgets, in seconds.
type Polling struct {
	Interval     int `toml:"interval"`
	MaxWait      int `toml:"max_wait"`
	CloneMaxWait int `toml:"clone_max_wait"`
}

// Output contains pipeline artifact settings.
type Output struct {
	Dir string `toml:"dir"`
}

// Serve contains configuration for the local CORS file server.
type Serve struct {
	Bind string `toml:"bind"`
	Dir  string `toml:"dir"`
}

// Vault contains Cookie Vault (Supabase) connection settings. Secrets are
// normally supplied through COOKIE_VAULT_* environment variables.
type Vault struct {
	SupabaseURL string `toml:"supabase_url"`
	SupabaseKey string `toml:"supabase_key"`
	Email       string `toml:"email"`
	Password    string `toml:"password"`
	Key         string `toml:"key"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for higgsctl.
//
// Configuration sections by subsystem:
//   - Service: Higgsfield API and Clerk identity endpoints
//   - TTS: default voice and script template for text-to-speech
//   - Lipsync: fixed lipsync job parameters
//   - Polling: job polling interval and wall-clock budgets
//   - Output: downloaded artifact directory
//   - Serve: local CORS file server bind address and directory
//   - Vault: Cookie Vault (Supabase) connection and decryption key
//   - Logging: log format and level
type Config struct {
	Service Service `toml:"service"`
	TTS     TTS     `toml:"tts"`
	Lipsync Lipsync `toml:"lipsync"`
	Polling Polling `toml:"polling"`
	Output  Output  `toml:"output"`
	Serve   Serve   `toml:"serve"`
	Vault   Vault   `toml:"vault"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/higgsctl/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("higgsctl.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directory used for downloaded results.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Output.Dir) != "" {
		if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", c.Output.Dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
