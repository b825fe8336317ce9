package config

const (
	defaultConfigPath = "~/.config/cantor/config.toml"
	defaultDataDir    = "~/.local/share/cantor"
	defaultLogDir     = "~/.local/share/cantor/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	// LogLevelEnv overrides logging.level when set.
	LogLevelEnv = "CANTOR_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Alignment: Alignment{
			BandWidth:    0.1,
			LengthRatio:  0.1,
			Downsample:   10,
			FitWindow:    200,
			MaxDTWCells:  50_000_000,
			MergeSlope:   0.01,
			MergeOffset:  0.1,
			MergeQuality: 0.8,
		},
		Pitch: Pitch{
			FPS:                 50,
			SmoothingAlpha:      0.3,
			ConfidenceThreshold: 0.3,
			MedianWindow:        5,
			SavGolWindow:        11,
			SavGolOrder:         3,
		},
		Notes: Notes{
			ConfidenceThreshold: 0.3,
			MinDuration:         0.2,
			TolCents:            40,
		},
		Phrases: Phrases{
			MinLength:      2.0,
			BeatsPerPhrase: 4,
			BeatsPerBar:    4,
			LoudnessWindow: 21,
		},
		Scoring: Scoring{
			TolCents:       50,
			MaxSamples:     2000,
			Workers:        0,
			TimeoutSeconds: 300,
			ChartPoints:    500,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
