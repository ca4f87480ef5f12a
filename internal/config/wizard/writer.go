package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eksward/eksward/internal/config"
	"gopkg.in/yaml.v3"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only essential non-default values are written.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		yamlBytes, err = yaml.Marshal(cfg)
	} else {
		// Create minimal config with only essential fields
		minCfg := buildMinimalConfig(cfg)
		yamlBytes, err = yaml.Marshal(minCfg)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// MinimalConfig represents the minimal configuration for YAML output.
// Only contains fields that are essential or explicitly set by the user.
type MinimalConfig struct {
	AWS        MinimalAWSConfig         `yaml:"aws"`
	Clusters   *MinimalClustersConfig   `yaml:"clusters,omitempty"`
	Upgrade    MinimalUpgradeConfig     `yaml:"upgrade"`
	Addons     MinimalAddonsConfig      `yaml:"addons"`
	Assessment *MinimalAssessmentConfig `yaml:"assessment,omitempty"`
	Output     MinimalOutputConfig      `yaml:"output"`
}

// MinimalAWSConfig contains essential AWS account settings.
type MinimalAWSConfig struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile,omitempty"`
}

// MinimalClustersConfig lists explicitly scoped clusters.
type MinimalClustersConfig struct {
	Names []string `yaml:"names"`
}

// MinimalUpgradeConfig contains the upgrade target.
type MinimalUpgradeConfig struct {
	TargetVersion string `yaml:"target_version"`
}

// MinimalAddonsConfig contains the critical addon set.
type MinimalAddonsConfig struct {
	Critical []string `yaml:"critical"`
}

// MinimalAssessmentConfig contains collection phases the user toggled.
type MinimalAssessmentConfig struct {
	IncludeWorkloads bool `yaml:"include_workloads"`
}

// MinimalOutputConfig contains report destination settings.
type MinimalOutputConfig struct {
	Dir      string   `yaml:"dir"`
	Formats  []string `yaml:"formats"`
	S3Bucket string   `yaml:"s3_bucket,omitempty"`
}

// buildMinimalConfig creates a minimal config from the full config.
func buildMinimalConfig(cfg *config.Config) *MinimalConfig {
	// An empty critical list is meaningful (no addon blocks the upgrade),
	// so it must stay a sequence rather than marshal to null.
	critical := cfg.Addons.Critical
	if critical == nil {
		critical = []string{}
	}

	minCfg := &MinimalConfig{
		AWS: MinimalAWSConfig{
			Region:  cfg.AWS.Region,
			Profile: cfg.AWS.Profile,
		},
		Upgrade: MinimalUpgradeConfig{
			TargetVersion: cfg.Upgrade.TargetVersion,
		},
		Addons: MinimalAddonsConfig{
			Critical: critical,
		},
		Output: MinimalOutputConfig{
			Dir:      cfg.Output.Dir,
			Formats:  cfg.Output.Formats,
			S3Bucket: cfg.Output.S3Bucket,
		},
	}

	// Cluster names - only when scoped to specific clusters
	if len(cfg.Clusters.Names) > 0 {
		minCfg.Clusters = &MinimalClustersConfig{Names: cfg.Clusters.Names}
	}

	// Workload checks default to off, so the section only appears when enabled
	if cfg.Assessment.IncludeWorkloads {
		minCfg.Assessment = &MinimalAssessmentConfig{IncludeWorkloads: true}
	}

	return minCfg
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full flag for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# eksward assessment configuration
# Generated by: eksward init
# Generated at: %s
# Output mode: %s
# Docs: https://github.com/eksward/eksward%s
#
# Credentials come from the standard AWS chain:
#   environment variables, shared config files, or SSO session
#
# Usage:
#   eksward prepare -c %s
#   eksward assess -c %s
`, time.Now().Format(time.RFC3339), mode, note, outputPath, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
