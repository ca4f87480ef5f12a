package config

import (
	"fmt"

	"github.com/eksward/eksward/internal/version"
)

// ValidFormats contains the report formats the writers support.
var ValidFormats = map[string]bool{
	"json":     true,
	"markdown": true,
	"yaml":     true,
}

// Validate checks the configuration for common errors and returns a
// detailed error if validation fails.
func (c *Config) Validate() error {
	if c.AWS.Region == "" {
		return fmt.Errorf("aws.region is required")
	}

	if err := c.validateUpgrade(); err != nil {
		return err
	}
	if err := c.validateClusters(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}

	if c.Cache.MaxAge <= 0 {
		return fmt.Errorf("cache.max_age must be positive, got %s", c.Cache.MaxAge)
	}

	return nil
}

// validateUpgrade checks the upgrade target version.
func (c *Config) validateUpgrade() error {
	if c.Upgrade.TargetVersion == "" {
		return fmt.Errorf("upgrade.target_version is required")
	}
	if _, err := version.ParsePlatform(c.Upgrade.TargetVersion); err != nil {
		return fmt.Errorf("invalid upgrade.target_version: %w", err)
	}
	return nil
}

// validateClusters checks the configured cluster names.
func (c *Config) validateClusters() error {
	for i, name := range c.Clusters.Names {
		if name == "" {
			return fmt.Errorf("clusters.names[%d] is empty", i)
		}
	}
	return nil
}

// validateOutput checks the report destination settings.
func (c *Config) validateOutput() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	for _, format := range c.Output.Formats {
		if !ValidFormats[format] {
			return fmt.Errorf("invalid output format %q: must be one of json, markdown, yaml", format)
		}
	}
	return nil
}
