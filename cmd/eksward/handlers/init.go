package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/eksward/eksward/internal/config"
	"github.com/eksward/eksward/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing config.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive configuration wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig
)

// InitOptions carries the init command flags.
type InitOptions struct {
	OutputPath string
	Defaults   bool
	Full       bool
}

// Init creates an assessment configuration file, either through the
// interactive wizard or, with Defaults set, as a commented sample with
// the standard defaults filled in.
func Init(ctx context.Context, opts InitOptions) error {
	if fileExists(opts.OutputPath) {
		ok, err := confirmOverwrite(opts.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var cfg *config.Config
	if opts.Defaults {
		cfg = defaultsConfig()
	} else {
		printWelcome()

		result, err := runWizard(ctx)
		if err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
		cfg = wizard.BuildConfig(result)
	}

	// The sample config is always written in full so every knob is visible.
	full := opts.Full || opts.Defaults
	if err := writeConfig(cfg, opts.OutputPath, full); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(opts.OutputPath, cfg)

	return nil
}

// defaultsConfig builds the non-interactive sample configuration. The
// target version defaults to the newest wizard choice.
func defaultsConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Upgrade.TargetVersion = wizard.TargetVersions[0].Value
	cfg.Addons.Critical = append([]string(nil), config.DefaultCriticalAddons...)
	cfg.Assessment.IncludeNodegroups = true
	cfg.Assessment.IncludeInsights = true
	cfg.ApplyDefaults()
	return cfg
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("eksward - EKS upgrade readiness")
	fmt.Println("===============================")
	fmt.Println()
	fmt.Println("This wizard creates an assessment configuration with sensible defaults.")
	fmt.Println("Just answer a few questions about your account and upgrade target.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	// Summary
	fmt.Println("Assessment Summary")
	fmt.Println("------------------")
	fmt.Printf("  Region:          %s\n", cfg.AWS.Region)
	if cfg.AWS.Profile != "" {
		fmt.Printf("  Profile:         %s\n", cfg.AWS.Profile)
	}
	if len(cfg.Clusters.Names) > 0 {
		fmt.Printf("  Clusters:        %s\n", strings.Join(cfg.Clusters.Names, ", "))
	} else {
		fmt.Println("  Clusters:        all in region")
	}
	fmt.Printf("  Target version:  %s\n", cfg.Upgrade.TargetVersion)
	fmt.Printf("  Critical addons: %s\n", strings.Join(cfg.Addons.Critical, ", "))
	fmt.Printf("  Output:          %s (%s)\n", cfg.Output.Dir, strings.Join(cfg.Output.Formats, ", "))
	if cfg.Output.S3Bucket != "" {
		fmt.Printf("  S3 bucket:       %s\n", cfg.Output.S3Bucket)
	}
	fmt.Println()

	// Next steps
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Warm the addon version catalog:")
	fmt.Printf("     eksward prepare -c %s\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Run the assessment:")
	fmt.Printf("     eksward assess -c %s\n", outputPath)
	fmt.Println()
}
