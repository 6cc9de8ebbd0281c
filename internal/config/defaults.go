package config

const (
	defaultBaseURL        = "https://fnf.higgsfield.ai"
	defaultClerkBaseURL   = "https://clerk.higgsfield.ai"
	defaultRequestTimeout = 30

	defaultVoiceID = "6pBuGbellIksHKibt0je2n" // Marston - Middle Age Male

	defaultScript = "Hey {name}! Quick hello before Funders Forum. " +
		"What if your underwriting team could handle twice the volume " +
		"without adding headcount? We've been deep in helping teams " +
		"do that at scale. Swing by our booth, we've got iPads to " +
		"give away. Would love fifteen minutes."

	defaultSimilarityBoost = 90
	defaultStyle           = 60
	defaultSpeed           = 1.1
	defaultStability       = 30

	defaultLipsyncQuality     = "high"
	defaultLipsyncTemperature = 0.5
	defaultLipsyncSyncMode    = "bounce"

	defaultPollInterval = 5
	defaultMaxWait      = 600
	defaultCloneMaxWait = 300

	defaultOutputDir = "output"

	defaultServeBind = "127.0.0.1:8766"
	defaultServeDir  = "~/Downloads"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        defaultBaseURL,
			ClerkBaseURL:   defaultClerkBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		TTS: TTS{
			VoiceID:         defaultVoiceID,
			Script:          defaultScript,
			SimilarityBoost: defaultSimilarityBoost,
			Style:           defaultStyle,
			Speed:           defaultSpeed,
			Stability:       defaultStability,
		},
		Lipsync: Lipsync{
			Quality:     defaultLipsyncQuality,
			Temperature: defaultLipsyncTemperature,
			SyncMode:    defaultLipsyncSyncMode,
		},
		Polling: Polling{
			Interval:     defaultPollInterval,
			MaxWait:      defaultMaxWait,
			CloneMaxWait: defaultCloneMaxWait,
		},
		Output: Output{
			Dir: defaultOutputDir,
		},
		Serve: Serve{
			Bind: defaultServeBind,
			Dir:  defaultServeDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
