package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateExtractor(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.CatalogPath == "" {
		return errors.New("paths.catalog_path must be set")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Days < 1 {
		return errors.New("sync.days must be at least 1")
	}
	switch c.Sync.OnCollision {
	case CollisionOverwrite, CollisionRename:
	default:
		return fmt.Errorf("sync.on_collision must be %q or %q, got %q", CollisionOverwrite, CollisionRename, c.Sync.OnCollision)
	}
	if c.Sync.MinFreeMB < 0 {
		return errors.New("sync.min_free_mb must not be negative")
	}
	return nil
}

func (c *Config) validateExtractor() error {
	if c.Extractor.Workers < 1 {
		return errors.New("extractor.workers must be at least 1")
	}
	if c.Extractor.TimeoutSeconds < 1 {
		return errors.New("extractor.timeout_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
