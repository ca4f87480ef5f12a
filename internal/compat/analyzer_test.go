package compat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eksward/eksward/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	entries := []catalog.Entry{
		{
			AddonName:       "coredns",
			PlatformVersion: "1.33",
			MinVersion:      "v1.10.1-eksbuild.35",
			MaxVersion:      "v1.11.4-eksbuild.1",
			DefaultVersion:  "v1.11.4-eksbuild.1",
		},
		{
			AddonName:       "vpc-cni",
			PlatformVersion: "1.33",
			MinVersion:      "v1.12.0-eksbuild.1",
			MaxVersion:      "v1.15.0-eksbuild.1",
		},
		{
			AddonName:       "kube-proxy",
			PlatformVersion: "1.33",
			MinVersion:      "v1.33.0-eksbuild.2",
			MaxVersion:      "v1.33.3-eksbuild.2",
		},
		{
			AddonName:       "aws-ebs-csi-driver",
			PlatformVersion: "1.33",
			MinVersion:      "v1.20.0-eksbuild.1",
			MaxVersion:      "v1.28.0-eksbuild.1",
		},
	}

	c, err := catalog.Build(entries, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), "us-west-2", zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), []string{"coredns", "vpc-cni", "kube-proxy"})

	snap := Snapshot{
		ClusterName:            "prod-us-west-2",
		CurrentPlatformVersion: "1.32",
		TargetPlatformVersion:  "1.33",
		Addons: []InstalledAddon{
			{Name: "vpc-cni", Version: "v1.15.0-eksbuild.1"},
			{Name: "coredns", Version: "v1.10.1-eksbuild.4"},
			{Name: "aws-ebs-csi-driver", Version: "latest"},
			{Name: "cluster-autoscaler", Version: "v1.33.0"},
		},
	}

	rep := analyzer.Analyze(snap)

	assert.Equal(t, "prod-us-west-2", rep.ClusterName)
	assert.Equal(t, "1.32", rep.CurrentPlatformVersion)
	assert.Equal(t, "1.33", rep.TargetPlatformVersion)
	require.Len(t, rep.AddonAnalysis, 4)

	// Input order is preserved, never re-sorted.
	assert.Equal(t, "vpc-cni", rep.AddonAnalysis[0].AddonName)
	assert.Equal(t, "coredns", rep.AddonAnalysis[1].AddonName)
	assert.Equal(t, "aws-ebs-csi-driver", rep.AddonAnalysis[2].AddonName)
	assert.Equal(t, "cluster-autoscaler", rep.AddonAnalysis[3].AddonName)

	assert.Equal(t, StatusCompatible, rep.AddonAnalysis[0].Status)
	assert.Equal(t, StatusUpgradeRequired, rep.AddonAnalysis[1].Status)
	assert.Equal(t, StatusUnknown, rep.AddonAnalysis[2].Status, "unparsable installed version")
	assert.Equal(t, StatusUnknown, rep.AddonAnalysis[3].Status, "addon absent from catalog")

	assert.True(t, rep.UpgradeBlocked)
	assert.Equal(t, Summary{TotalAddons: 4, Pass: 1, Warning: 0, Error: 1, Unknown: 2}, rep.Summary)

	require.Len(t, rep.BlockingIssues, 1)
	assert.Equal(t, "coredns", rep.BlockingIssues[0].AddonName)
	assert.Contains(t, rep.BlockingIssues[0].Issue, "below the minimum")
	assert.Contains(t, rep.BlockingIssues[0].ActionRequired, "upgrade coredns")
}

func TestAnalyzer_NonCriticalNeverBlocks(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), nil)

	rep := analyzer.Analyze(Snapshot{
		ClusterName:           "dev",
		TargetPlatformVersion: "1.33",
		Addons: []InstalledAddon{
			{Name: "coredns", Version: "v1.10.1-eksbuild.4"},
		},
	})

	assert.False(t, rep.UpgradeBlocked)
	assert.Equal(t, StatusUpgradeRecommended, rep.AddonAnalysis[0].Status)
	assert.Empty(t, rep.BlockingIssues)
	assert.Equal(t, 1, rep.Summary.Warning)
}

func TestAnalyzer_AboveMaximumWarnsWithoutBlocking(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), []string{"vpc-cni"})

	rep := analyzer.Analyze(Snapshot{
		ClusterName:           "edge",
		TargetPlatformVersion: "1.33",
		Addons: []InstalledAddon{
			{Name: "vpc-cni", Version: "v1.16.0-eksbuild.1"},
		},
	})

	assert.False(t, rep.UpgradeBlocked)
	assert.Equal(t, StatusUpgradeRecommended, rep.AddonAnalysis[0].Status)
	assert.Contains(t, rep.AddonAnalysis[0].ActionRequired, "downgrade to at most v1.15.0-eksbuild.1")
}

func TestAnalyzer_UnknownNeverAbortsBatch(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), []string{"kube-proxy"})

	rep := analyzer.Analyze(Snapshot{
		ClusterName:           "staging",
		TargetPlatformVersion: "1.33",
		Addons: []InstalledAddon{
			{Name: "mystery-addon", Version: "v1.0.0"},
			{Name: "coredns", Version: "not-a-version"},
			{Name: "kube-proxy", Version: "v1.33.1-eksbuild.1"},
		},
	})

	require.Len(t, rep.AddonAnalysis, 3, "partial results must cover every supplied addon")
	assert.Equal(t, StatusUnknown, rep.AddonAnalysis[0].Status)
	assert.Equal(t, StatusUnknown, rep.AddonAnalysis[1].Status)
	assert.Equal(t, StatusCompatible, rep.AddonAnalysis[2].Status)
	assert.Equal(t, 2, rep.Summary.Unknown)
	assert.False(t, rep.UpgradeBlocked)
}

func TestAnalyzer_MissingCatalogEntryNeverCompatible(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), nil)

	rep := analyzer.Analyze(Snapshot{
		ClusterName:           "x",
		TargetPlatformVersion: "1.99",
		Addons: []InstalledAddon{
			{Name: "coredns", Version: "v1.11.0-eksbuild.1"},
		},
	})

	assert.Equal(t, StatusUnknown, rep.AddonAnalysis[0].Status)
	assert.Equal(t, "no compatibility data available for this addon/target version combination", rep.AddonAnalysis[0].ActionRequired)
}

func TestAnalyzer_Idempotent(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), []string{"coredns"})

	snap := Snapshot{
		ClusterName:            "prod",
		CurrentPlatformVersion: "1.32",
		TargetPlatformVersion:  "1.33",
		Addons: []InstalledAddon{
			{Name: "coredns", Version: "v1.10.1-eksbuild.4"},
			{Name: "vpc-cni", Version: "v1.14.0-eksbuild.3"},
		},
	}

	first, err := json.Marshal(analyzer.Analyze(snap))
	require.NoError(t, err)
	second, err := json.Marshal(analyzer.Analyze(snap))
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs and catalog must produce byte-identical reports")
}

func TestAnalyzer_EmptyAddonList(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), []string{"coredns"})

	rep := analyzer.Analyze(Snapshot{
		ClusterName:           "empty",
		TargetPlatformVersion: "1.33",
	})

	assert.False(t, rep.UpgradeBlocked)
	assert.Empty(t, rep.AddonAnalysis)
	assert.Equal(t, Summary{}, rep.Summary)
}

func TestReport_JSONFieldNames(t *testing.T) {
	analyzer := NewAnalyzer(testCatalog(t), []string{"coredns"})

	rep := analyzer.Analyze(Snapshot{
		ClusterName:            "prod",
		CurrentPlatformVersion: "1.32",
		TargetPlatformVersion:  "1.33",
		Addons: []InstalledAddon{
			{Name: "coredns", Version: "v1.10.1-eksbuild.4"},
		},
	})

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, field := range []string{"cluster_name", "target_platform_version", "upgrade_blocked", "addon_analysis", "summary"} {
		assert.Contains(t, raw, field)
	}

	rows, ok := raw["addon_analysis"].([]any)
	require.True(t, ok)
	row, ok := rows[0].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"addon_name", "current_version", "status", "min_version", "max_version", "action_required"} {
		assert.Contains(t, row, field)
	}
	assert.Equal(t, "error", row["status"])
}
