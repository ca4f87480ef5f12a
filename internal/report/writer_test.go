package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksward/eksward/internal/compat"
	"github.com/eksward/eksward/internal/platform/eks"
)

func passingReport(cluster string) *compat.Report {
	return &compat.Report{
		ClusterName:            cluster,
		CurrentPlatformVersion: "1.32",
		TargetPlatformVersion:  "1.33",
		AddonAnalysis: []compat.AddonAnalysis{
			{
				AddonName:      "coredns",
				CurrentVersion: "v1.11.1-eksbuild.4",
				Status:         compat.StatusCompatible,
				MinVersion:     "v1.10.1-eksbuild.2",
				MaxVersion:     "v1.11.3-eksbuild.1",
				ActionRequired: "no action required — addon is compatible.",
			},
		},
		Summary: compat.Summary{TotalAddons: 1, Pass: 1},
	}
}

func blockedReport(cluster string) *compat.Report {
	return &compat.Report{
		ClusterName:            cluster,
		CurrentPlatformVersion: "1.32",
		TargetPlatformVersion:  "1.33",
		UpgradeBlocked:         true,
		AddonAnalysis: []compat.AddonAnalysis{
			{
				AddonName:      "vpc-cni",
				CurrentVersion: "v1.12.0-eksbuild.1",
				Status:         compat.StatusUpgradeRequired,
				MinVersion:     "v1.15.0-eksbuild.1",
				MaxVersion:     "v1.18.1-eksbuild.3",
				ActionRequired: "upgrade vpc-cni from v1.12.0-eksbuild.1 to at least v1.15.0-eksbuild.1 before the platform upgrade.",
			},
		},
		Summary: compat.Summary{TotalAddons: 1, Error: 1},
		BlockingIssues: []compat.BlockingIssue{
			{
				AddonName:      "vpc-cni",
				Issue:          "installed version v1.12.0-eksbuild.1 is below the minimum v1.15.0-eksbuild.1 required for platform version 1.33",
				ActionRequired: "upgrade vpc-cni from v1.12.0-eksbuild.1 to at least v1.15.0-eksbuild.1 before the platform upgrade.",
			},
		},
	}
}

func TestBuildSummary(t *testing.T) {
	warned := passingReport("staging-cluster")
	warned.Summary = compat.Summary{TotalAddons: 2, Pass: 1, Warning: 1}

	results := []ClusterResult{
		{ClusterName: "prod-cluster", Compat: passingReport("prod-cluster")},
		{ClusterName: "staging-cluster", Compat: warned},
		{ClusterName: "legacy-cluster", Compat: blockedReport("legacy-cluster")},
		{ClusterName: "broken-cluster", Error: "failed to describe cluster broken-cluster: access denied"},
	}

	generatedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	s := BuildSummary(results, "us-west-2", "1.33", generatedAt)

	assert.Equal(t, 4, s.TotalClusters)
	assert.Equal(t, 1, s.ClustersReady)
	assert.Equal(t, 1, s.ClustersWithWarnings)
	assert.Equal(t, 1, s.ClustersBlocked)
	assert.Equal(t, 1, s.ClustersErrored)
	assert.Equal(t, ReadinessBlocked, s.OverallReadiness)
	assert.Equal(t, "us-west-2", s.Region)
	assert.Equal(t, "1.33", s.TargetVersion)
	assert.Equal(t, generatedAt, s.GeneratedAt)

	require.Len(t, s.Clusters, 4)
	assert.Equal(t, "prod-cluster", s.Clusters[0].ClusterName)
	assert.Equal(t, ReadinessReady, s.Clusters[0].Readiness)
	assert.Equal(t, "1.32", s.Clusters[0].CurrentVersion)

	assert.Equal(t, ReadinessWarnings, s.Clusters[1].Readiness)

	assert.Equal(t, ReadinessBlocked, s.Clusters[2].Readiness)
	assert.True(t, s.Clusters[2].UpgradeBlocked)
	assert.Equal(t, 1, s.Clusters[2].BlockingIssues)

	assert.Equal(t, ReadinessUnknown, s.Clusters[3].Readiness)
	assert.Contains(t, s.Clusters[3].Error, "access denied")
	assert.Nil(t, s.Clusters[3].AddonSummary)
}

func TestBuildSummary_Empty(t *testing.T) {
	s := BuildSummary(nil, "us-west-2", "1.33", time.Now())

	assert.Equal(t, 0, s.TotalClusters)
	assert.Equal(t, ReadinessUnknown, s.OverallReadiness)
}

func TestBuildSummary_AllErrored(t *testing.T) {
	results := []ClusterResult{
		{ClusterName: "a", Error: "boom"},
		{ClusterName: "b", Error: "boom"},
	}

	s := BuildSummary(results, "us-west-2", "1.33", time.Now())

	assert.Equal(t, 2, s.ClustersErrored)
	assert.Equal(t, ReadinessUnknown, s.OverallReadiness)
}

func TestBuildSummary_AdvisoryFindingsWarn(t *testing.T) {
	results := []ClusterResult{
		{
			ClusterName: "prod-cluster",
			Compat:      passingReport("prod-cluster"),
			Insights: []eks.Insight{
				{Name: "Deprecated APIs removed in 1.33", Status: "WARNING"},
			},
		},
	}

	s := BuildSummary(results, "us-west-2", "1.33", time.Now())

	assert.Equal(t, ReadinessWarnings, s.OverallReadiness)
	assert.Equal(t, 1, s.Clusters[0].InsightIssues)
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	w := NewWriter(dir, []string{FormatJSON, FormatMarkdown, FormatYAML}, nil)

	results := []ClusterResult{
		{
			ClusterName: "prod-cluster",
			Info:        &eks.ClusterInfo{Name: "prod-cluster", Version: "1.32", PlatformVersion: "eks.12"},
			Compat:      blockedReport("prod-cluster"),
		},
		{ClusterName: "broken-cluster", Error: "collection failed"},
	}
	summary := BuildSummary(results, "us-west-2", "1.33", time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))

	artifacts, err := w.WriteAll(results, summary)
	require.NoError(t, err)

	// Three formats for the good cluster plus the run summary.
	require.Len(t, artifacts, 4)

	// JSON round-trips to the same report.
	jsonPath := filepath.Join(dir, "prod-cluster", "addon-compatibility.json")
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var got compat.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *blockedReport("prod-cluster"), got)

	// Markdown carries the table and the blocking issue.
	mdData, err := os.ReadFile(filepath.Join(dir, "prod-cluster", "addon-compatibility.md"))
	require.NoError(t, err)
	assert.Contains(t, string(mdData), "# Addon Compatibility Report: prod-cluster")
	assert.Contains(t, string(mdData), "❌ error")
	assert.Contains(t, string(mdData), "## Blocking Issues")

	// YAML uses the JSON field names.
	yamlData, err := os.ReadFile(filepath.Join(dir, "prod-cluster", "addon-compatibility.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "addon_name: vpc-cni")
	assert.Contains(t, string(yamlData), "upgrade_blocked: true")

	// The errored cluster gets no directory but stays in the summary.
	_, err = os.Stat(filepath.Join(dir, "broken-cluster"))
	assert.True(t, os.IsNotExist(err))

	sumData, err := os.ReadFile(filepath.Join(dir, "assessment-summary.json"))
	require.NoError(t, err)

	var gotSummary RunSummary
	require.NoError(t, json.Unmarshal(sumData, &gotSummary))
	assert.Equal(t, 2, gotSummary.TotalClusters)
	assert.Equal(t, ReadinessBlocked, gotSummary.OverallReadiness)
	assert.Equal(t, "collection failed", gotSummary.Clusters[1].Error)
}

func TestWriteAll_UnsupportedFormat(t *testing.T) {
	w := NewWriter(t.TempDir(), []string{"pdf"}, nil)

	results := []ClusterResult{{ClusterName: "prod-cluster", Compat: passingReport("prod-cluster")}}

	_, err := w.WriteAll(results, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported report format "pdf"`)
}

func TestWriteAll_Deterministic(t *testing.T) {
	results := []ClusterResult{{ClusterName: "prod-cluster", Compat: blockedReport("prod-cluster")}}

	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")

	artifactsA, err := NewWriter(dirA, []string{FormatJSON, FormatMarkdown, FormatYAML}, nil).WriteAll(results, nil)
	require.NoError(t, err)
	artifactsB, err := NewWriter(dirB, []string{FormatJSON, FormatMarkdown, FormatYAML}, nil).WriteAll(results, nil)
	require.NoError(t, err)

	require.Len(t, artifactsB, len(artifactsA))
	for i := range artifactsA {
		assert.Equal(t, artifactsA[i].Data, artifactsB[i].Data, "artifact %s differs between runs", artifactsA[i].Name)
	}
}

func TestRenderMarkdown_AdvisorySections(t *testing.T) {
	res := &ClusterResult{
		ClusterName: "prod-cluster",
		Compat:      passingReport("prod-cluster"),
		Nodegroups: []eks.Nodegroup{
			{Name: "workers", Version: "1.32", AMIType: "AL2023_x86_64_STANDARD", Status: "ACTIVE"},
		},
		Insights: []eks.Insight{
			{Name: "Deprecated APIs removed in 1.33", Status: "WARNING", Recommendation: "migrate the listed API versions"},
		},
		Workloads: []WorkloadWarning{
			{Namespace: "kube-system", Name: "coredns-pdb", Kind: "PodDisruptionBudget", Issue: "no disruptions allowed; node drains may hang", Severity: "high"},
		},
	}

	md := renderMarkdown(res)

	assert.Contains(t, md, "## Upgrade Insights")
	assert.Contains(t, md, "| Deprecated APIs removed in 1.33 | WARNING | migrate the listed API versions |")
	assert.Contains(t, md, "## Workload Warnings")
	assert.Contains(t, md, "| kube-system/coredns-pdb | PodDisruptionBudget | high |")
	assert.Contains(t, md, "## Nodegroups")
	assert.Contains(t, md, "| workers | 1.32 | AL2023_x86_64_STANDARD | ACTIVE |")
}

func TestRenderMarkdown_OmitsEmptySections(t *testing.T) {
	res := &ClusterResult{ClusterName: "prod-cluster", Compat: passingReport("prod-cluster")}

	md := renderMarkdown(res)

	assert.Contains(t, md, "**Upgrade Blocked:** ✅ NO")
	assert.NotContains(t, md, "## Blocking Issues")
	assert.NotContains(t, md, "## Upgrade Insights")
	assert.NotContains(t, md, "## Workload Warnings")
	assert.NotContains(t, md, "## Nodegroups")
}
