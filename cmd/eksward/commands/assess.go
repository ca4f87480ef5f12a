package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksward/eksward/cmd/eksward/handlers"
)

// Assess returns the command for running a full upgrade assessment.
//
// This command verifies AWS credentials, resolves the cluster set,
// loads or fetches the addon version catalog, collects per-cluster
// state, analyzes addon compatibility against the target version,
// and writes per-cluster reports plus a combined summary.
//
// Flags:
//
//	--config, -c: Path to assessment configuration YAML file (required)
//	--target-version, -t: Target Kubernetes version override
//	--clusters: Comma-separated cluster names override
//	--concurrency: Parallel cluster assessments (default: min(4, clusters))
//	--skip-insights: Skip the EKS upgrade insights collection
//	--workloads: Enable PodDisruptionBudget and daemonset checks
//	--kubeconfig: Kubeconfig path for the workload checks
//	--output, -o: Report directory override
//	--no-color: Disable the progress UI and colored output
func Assess() *cobra.Command {
	var opts handlers.AssessOptions

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess cluster upgrade readiness",
		Long: `Assess EKS clusters for upgrade readiness.

For every cluster in scope, this command compares the installed managed
addons against the version ranges supported on the target Kubernetes
version. Critical addons below the minimum block the upgrade verdict;
anything above the maximum or unclassifiable is reported as a warning.

Per-cluster reports and a combined run summary are written under the
output directory in every configured format, and optionally uploaded
to S3.

Examples:
  # Assess every cluster named in the config
  eksward assess -c eksward.yaml

  # Override the target version for a what-if run
  eksward assess -c eksward.yaml -t 1.34

  # Assess two clusters with workload checks, no progress UI
  eksward assess -c eksward.yaml --clusters prod-a,prod-b --workloads --no-color`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			opts.LogJSON, _ = cmd.Flags().GetBool("log-json")
			return handlers.Assess(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&opts.TargetVersion, "target-version", "t", "", "Target Kubernetes version override")
	cmd.Flags().StringSliceVar(&opts.Clusters, "clusters", nil, "Comma-separated cluster names override")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Parallel cluster assessments (default: min(4, clusters))")
	cmd.Flags().BoolVar(&opts.SkipInsights, "skip-insights", false, "Skip the EKS upgrade insights collection")
	cmd.Flags().BoolVar(&opts.Workloads, "workloads", false, "Enable PodDisruptionBudget and daemonset checks")
	cmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Kubeconfig path for the workload checks")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "Report directory override")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable the progress UI and colored output")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
