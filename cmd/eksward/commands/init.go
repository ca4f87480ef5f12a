package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksward/eksward/cmd/eksward/handlers"
)

// Init returns the command for interactively creating an assessment
// configuration.
//
// This command guides users through creating an assessment configuration
// YAML file using an interactive wizard with text inputs, single-select,
// and multi-select prompts.
//
// Flags:
//
//	--output, -o: Path to output file (default "eksward.yaml")
//	--defaults: Skip the wizard and write a commented sample config
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create an assessment configuration",
		Long: `Interactively create an assessment configuration file.

This command guides you through configuring an upgrade assessment
step by step. It will ask about:

  - AWS account surface (region and optional profile)
  - Cluster scope (every cluster in the region, or a fixed list)
  - Target Kubernetes version
  - Critical addons (incompatibilities block the upgrade verdict)
  - Optional workload checks (PodDisruptionBudgets, daemonsets)
  - Report output (directory, formats, optional S3 bucket)

Use --defaults to skip the wizard and write a fully commented sample
configuration with the standard defaults.

Use --full to output the complete YAML with all configuration
options (useful for manual editing). By default, a minimal
YAML is generated with only essential values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "eksward.yaml", "Output file path")
	cmd.Flags().BoolVar(&opts.Defaults, "defaults", false, "Write a commented sample config without running the wizard")
	cmd.Flags().BoolVarP(&opts.Full, "full", "f", false, "Output full YAML with all options")

	return cmd
}
