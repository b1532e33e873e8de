package config

const (
	defaultOutputDir              = "~/Downloads"
	defaultFFmpegBinary           = "ffmpeg"
	defaultFFprobeBinary          = "ffprobe"
	defaultKind                   = "gif"
	defaultDurationSeconds        = 10
	defaultMaxDurationSeconds     = 30
	defaultInputMaxBytes          = 2 << 30
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultEnforceMaxDuration     = true
	defaultRequireVideo           = true
	defaultOverwriteExistingFiles = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir(),
			OutputDir:    defaultOutputDir,
		},
		Engine: Engine{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Conversion: Conversion{
			DefaultKind:            defaultKind,
			DefaultDurationSeconds: defaultDurationSeconds,
			MaxDurationSeconds:     defaultMaxDurationSeconds,
			EnforceMaxDuration:     defaultEnforceMaxDuration,
		},
		Input: Input{
			RequireVideo: defaultRequireVideo,
			MaxBytes:     defaultInputMaxBytes,
		},
		Output: Output{
			Overwrite: defaultOverwriteExistingFiles,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
