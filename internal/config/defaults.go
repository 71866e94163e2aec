package config

const (
	defaultLibraryDir    = "."
	defaultLogDir        = "~/.local/share/shelfsort/logs"
	defaultExtension     = ".epub"
	defaultProcessedDir  = "[processed]"
	defaultFailedDir     = "[failed]"
	defaultDuplicatesDir = "[duplicates]"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Library: Library{
			Extension:     defaultExtension,
			ProcessedDir:  defaultProcessedDir,
			FailedDir:     defaultFailedDir,
			DuplicatesDir: defaultDuplicatesDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
