package config

import "time"

// Defaults applied when the corresponding keys are absent.
const (
	DefaultRegion    = "us-west-2"
	DefaultOutputDir = "assessment-reports"
	DefaultMaxAge    = 24 * time.Hour
)

// DefaultCriticalAddons are the addons treated as critical when the config
// does not name its own set. A below-minimum verdict on a critical addon
// blocks the upgrade.
var DefaultCriticalAddons = []string{"vpc-cni", "coredns", "kube-proxy"}

// DefaultFormats are the report formats written when none are configured.
var DefaultFormats = []string{"json", "markdown"}

// Config holds the assessment configuration.
type Config struct {
	AWS        AWSConfig        `mapstructure:"aws" yaml:"aws"`
	Clusters   ClustersConfig   `mapstructure:"clusters" yaml:"clusters"`
	Upgrade    UpgradeConfig    `mapstructure:"upgrade" yaml:"upgrade"`
	Addons     AddonsConfig     `mapstructure:"addons" yaml:"addons"`
	Assessment AssessmentConfig `mapstructure:"assessment" yaml:"assessment"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
}

// AWSConfig selects the account surface to assess.
type AWSConfig struct {
	Region  string `mapstructure:"region" yaml:"region"`
	Profile string `mapstructure:"profile" yaml:"profile,omitempty"`
}

// ClustersConfig names the clusters to assess. An empty list means every
// cluster in the region is discovered and assessed.
type ClustersConfig struct {
	Names []string `mapstructure:"names" yaml:"names,omitempty"`
}

// UpgradeConfig holds the upgrade target.
type UpgradeConfig struct {
	TargetVersion string `mapstructure:"target_version" yaml:"target_version"`
}

// AddonsConfig configures addon criticality. An explicitly empty critical
// list means no addon blocks the upgrade; only an absent key selects the
// default set.
type AddonsConfig struct {
	Critical []string `mapstructure:"critical" yaml:"critical"`
}

// AssessmentConfig toggles the optional collection phases.
type AssessmentConfig struct {
	IncludeNodegroups bool `mapstructure:"include_nodegroups" yaml:"include_nodegroups"`
	IncludeInsights   bool `mapstructure:"include_insights" yaml:"include_insights"`
	IncludeWorkloads  bool `mapstructure:"include_workloads" yaml:"include_workloads"`
}

// CacheConfig bounds the age of the shared addon version catalog.
type CacheConfig struct {
	MaxAge time.Duration `mapstructure:"max_age" yaml:"max_age"`
}

// MarshalYAML renders the max age in duration notation ("24h0m0s") rather
// than raw nanoseconds. The loader accepts both.
func (c CacheConfig) MarshalYAML() (interface{}, error) {
	return map[string]string{"max_age": c.MaxAge.String()}, nil
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Dir      string   `mapstructure:"dir" yaml:"dir"`
	Formats  []string `mapstructure:"formats" yaml:"formats"`
	S3Bucket string   `mapstructure:"s3_bucket" yaml:"s3_bucket,omitempty"`
}

// ApplyDefaults fills in the defaults for unset scalar fields. The critical
// addon default depends on key presence in the raw document and is handled
// during load instead.
func (c *Config) ApplyDefaults() {
	if c.AWS.Region == "" {
		c.AWS.Region = DefaultRegion
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = append([]string(nil), DefaultFormats...)
	}
	if c.Cache.MaxAge == 0 {
		c.Cache.MaxAge = DefaultMaxAge
	}
}
