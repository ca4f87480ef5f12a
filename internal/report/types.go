package report

import (
	"strings"
	"time"

	"github.com/eksward/eksward/internal/compat"
	"github.com/eksward/eksward/internal/platform/eks"
)

// Readiness classifies how safe the platform upgrade looks for a cluster or
// for the whole run.
const (
	ReadinessReady    = "ready"
	ReadinessWarnings = "ready_with_warnings"
	ReadinessBlocked  = "not_ready"
	ReadinessUnknown  = "unknown"
)

// ClusterResult is everything the assessment produced for one cluster.
// Compat is nil when collection failed; Error carries the reason.
type ClusterResult struct {
	ClusterName string            `json:"cluster_name"`
	Info        *eks.ClusterInfo  `json:"cluster_info,omitempty"`
	Compat      *compat.Report    `json:"addon_compatibility,omitempty"`
	Nodegroups  []eks.Nodegroup   `json:"nodegroups,omitempty"`
	Insights    []eks.Insight     `json:"upgrade_insights,omitempty"`
	Workloads   []WorkloadWarning `json:"workload_warnings,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// WorkloadWarning is an advisory finding about a workload that may
// complicate node drains during the upgrade. Advisory only, never a blocker.
type WorkloadWarning struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Issue     string `json:"issue"`
	Severity  string `json:"severity"`
}

// ClusterSummary is the per-cluster row of the combined run summary.
type ClusterSummary struct {
	ClusterName      string          `json:"cluster_name"`
	CurrentVersion   string          `json:"current_version,omitempty"`
	Readiness        string          `json:"readiness"`
	UpgradeBlocked   bool            `json:"upgrade_blocked"`
	AddonSummary     *compat.Summary `json:"addon_summary,omitempty"`
	BlockingIssues   int             `json:"blocking_issues,omitempty"`
	InsightIssues    int             `json:"insight_issues,omitempty"`
	WorkloadWarnings int             `json:"workload_warnings,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// RunSummary is the combined assessment result across all clusters.
type RunSummary struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	Region               string           `json:"region"`
	TargetVersion        string           `json:"target_platform_version"`
	TotalClusters        int              `json:"total_clusters"`
	ClustersReady        int              `json:"clusters_ready"`
	ClustersWithWarnings int              `json:"clusters_with_warnings"`
	ClustersBlocked      int              `json:"clusters_blocked"`
	ClustersErrored      int              `json:"clusters_errored"`
	OverallReadiness     string           `json:"overall_readiness"`
	Clusters             []ClusterSummary `json:"clusters"`
}

// BuildSummary rolls the per-cluster results up into the run summary.
// Cluster order is preserved from the input.
func BuildSummary(results []ClusterResult, region, targetVersion string, generatedAt time.Time) *RunSummary {
	s := &RunSummary{
		GeneratedAt:   generatedAt,
		Region:        region,
		TargetVersion: targetVersion,
		TotalClusters: len(results),
		Clusters:      make([]ClusterSummary, 0, len(results)),
	}

	for i := range results {
		res := &results[i]

		cs := ClusterSummary{
			ClusterName:      res.ClusterName,
			Readiness:        clusterReadiness(res),
			InsightIssues:    insightIssues(res.Insights),
			WorkloadWarnings: len(res.Workloads),
			Error:            res.Error,
		}
		if res.Info != nil {
			cs.CurrentVersion = res.Info.Version
		} else if res.Compat != nil {
			cs.CurrentVersion = res.Compat.CurrentPlatformVersion
		}
		if res.Compat != nil {
			cs.UpgradeBlocked = res.Compat.UpgradeBlocked
			cs.AddonSummary = &res.Compat.Summary
			cs.BlockingIssues = len(res.Compat.BlockingIssues)
		}

		switch cs.Readiness {
		case ReadinessReady:
			s.ClustersReady++
		case ReadinessWarnings:
			s.ClustersWithWarnings++
		case ReadinessBlocked:
			s.ClustersBlocked++
		default:
			s.ClustersErrored++
		}

		s.Clusters = append(s.Clusters, cs)
	}

	s.OverallReadiness = overallReadiness(s)
	return s
}

// clusterReadiness classifies one cluster. A collection failure means the
// cluster could not be assessed at all, which is distinct from a clean pass.
func clusterReadiness(res *ClusterResult) string {
	switch {
	case res.Error != "" || res.Compat == nil:
		return ReadinessUnknown
	case res.Compat.UpgradeBlocked:
		return ReadinessBlocked
	case res.Compat.Summary.Warning > 0 || res.Compat.Summary.Unknown > 0:
		return ReadinessWarnings
	case insightIssues(res.Insights) > 0 || len(res.Workloads) > 0:
		return ReadinessWarnings
	default:
		return ReadinessReady
	}
}

// insightIssues counts upgrade insights that are not passing.
func insightIssues(insights []eks.Insight) int {
	n := 0
	for _, in := range insights {
		if in.Status != "" && !strings.EqualFold(in.Status, "PASSING") {
			n++
		}
	}
	return n
}

// overallReadiness derives the run verdict from the cluster counts. A single
// blocked cluster blocks the run; clusters that could not be assessed keep
// the run from being called clean.
func overallReadiness(s *RunSummary) string {
	switch {
	case s.TotalClusters == 0:
		return ReadinessUnknown
	case s.ClustersBlocked > 0:
		return ReadinessBlocked
	case s.ClustersErrored == s.TotalClusters:
		return ReadinessUnknown
	case s.ClustersWithWarnings > 0 || s.ClustersErrored > 0:
		return ReadinessWarnings
	default:
		return ReadinessReady
	}
}
