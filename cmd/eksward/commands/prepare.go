package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksward/eksward/cmd/eksward/handlers"
)

// Prepare returns the command for building or refreshing the addon
// version catalog.
//
// The catalog maps (addon, target version) pairs to supported addon
// version ranges for one region. It is cached on disk and reused by
// assess runs until it goes stale.
//
// Flags:
//
//	--config, -c: Path to assessment configuration YAML file (default: eksward.yaml)
//	--force-refresh: Refetch the catalog even if the cache is fresh
//	--region, -r: Region override (usable without a config file)
func Prepare() *cobra.Command {
	var opts handlers.PrepareOptions

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Build or refresh the addon version catalog",
		Long: `Build or refresh the shared addon version catalog.

This command queries the EKS DescribeAddonVersions API for every managed
addon in the region and condenses the results into a catalog of supported
version ranges per target Kubernetes version. The catalog is written next
to the assessment reports and reused until it goes stale.

Running prepare ahead of time keeps assess runs fast and makes the
assessment reproducible across a fleet review session.

Examples:
  # Build the catalog using eksward.yaml in the current directory
  eksward prepare

  # Refresh a stale catalog no matter its age
  eksward prepare -c fleet.yaml --force-refresh

  # Build a catalog for a region without a config file
  eksward prepare -r eu-west-1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			opts.LogJSON, _ = cmd.Flags().GetBool("log-json")
			return handlers.Prepare(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: eksward.yaml)")
	cmd.Flags().BoolVar(&opts.ForceRefresh, "force-refresh", false, "Refetch the catalog even if the cache is fresh")
	cmd.Flags().StringVarP(&opts.Region, "region", "r", "", "AWS region override")

	return cmd
}
