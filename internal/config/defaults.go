package config

const (
	defaultStagingDir              = "~/.local/share/camsync/staging"
	defaultCatalogPath             = "~/.local/share/camsync/catalog.db"
	defaultLogDir                  = "~/.local/share/camsync/logs"
	defaultSyncDays                = 2
	defaultSyncMinFreeMB           = 512
	defaultExtractorWorkers        = 4
	defaultExtractorTimeoutSeconds = 30
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:  defaultStagingDir,
			CatalogPath: defaultCatalogPath,
			LogDir:      defaultLogDir,
		},
		Sync: Sync{
			Days:        defaultSyncDays,
			OnCollision: CollisionOverwrite,
			MinFreeMB:   defaultSyncMinFreeMB,
		},
		Extractor: Extractor{
			Workers:        defaultExtractorWorkers,
			TimeoutSeconds: defaultExtractorTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
