package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSync()
	c.normalizeExtractor()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSync() {
	c.Sync.OnCollision = strings.ToLower(strings.TrimSpace(c.Sync.OnCollision))
	if c.Sync.OnCollision == "" {
		c.Sync.OnCollision = CollisionOverwrite
	}
	if c.Sync.Days == 0 {
		c.Sync.Days = defaultSyncDays
	}
}

func (c *Config) normalizeExtractor() {
	c.Extractor.Binary = strings.TrimSpace(c.Extractor.Binary)
	c.Camera.Binary = strings.TrimSpace(c.Camera.Binary)
	if c.Extractor.Workers == 0 {
		c.Extractor.Workers = defaultExtractorWorkers
	}
	if c.Extractor.TimeoutSeconds == 0 {
		c.Extractor.TimeoutSeconds = defaultExtractorTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
