package wizard

import "github.com/eksward/eksward/internal/config"

// BuildConfig creates a Config struct from the wizard result.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		AWS: config.AWSConfig{
			Region:  result.Region,
			Profile: result.Profile,
		},
		Upgrade: config.UpgradeConfig{
			TargetVersion: result.TargetVersion,
		},
		Addons: config.AddonsConfig{
			Critical: result.CriticalAddons,
		},
		Assessment: config.AssessmentConfig{
			IncludeNodegroups: true,
			IncludeInsights:   true,
			IncludeWorkloads:  result.IncludeWorkloads,
		},
		Cache: config.CacheConfig{
			MaxAge: config.DefaultMaxAge,
		},
		Output: config.OutputConfig{
			Dir:      result.OutputDir,
			Formats:  result.Formats,
			S3Bucket: result.S3Bucket,
		},
	}

	// Only list cluster names when scoping to specific clusters; an empty
	// list means discover everything in the region.
	if !result.AssessAll {
		cfg.Clusters.Names = result.ClusterNames
	}

	return cfg
}
