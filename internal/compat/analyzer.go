package compat

import (
	"fmt"

	"github.com/eksward/eksward/internal/catalog"
)

// InstalledAddon is one addon as reported by the cluster, in provider
// order. Version is the raw string; parsing happens inside Evaluate.
type InstalledAddon struct {
	Name    string `json:"addon_name"`
	Version string `json:"installed_version"`
}

// Snapshot is the per-cluster input to analysis: the installed addons plus
// the current and target platform versions. Snapshots are built fresh for
// every assessment run and never persisted here.
type Snapshot struct {
	ClusterName            string
	CurrentPlatformVersion string
	TargetPlatformVersion  string
	Addons                 []InstalledAddon
}

// Analyzer evaluates every addon of a cluster against a shared catalog.
// The catalog is read-only after build and the critical set is fixed at
// construction, so one Analyzer may serve concurrent Analyze calls.
type Analyzer struct {
	catalog  *catalog.Catalog
	critical map[string]bool
}

// NewAnalyzer creates an analyzer over an immutable catalog. criticalAddons
// names the addons whose below-minimum verdicts block the upgrade.
func NewAnalyzer(cat *catalog.Catalog, criticalAddons []string) *Analyzer {
	critical := make(map[string]bool, len(criticalAddons))
	for _, name := range criticalAddons {
		critical[name] = true
	}
	return &Analyzer{catalog: cat, critical: critical}
}

// Analyze produces the compatibility report for one cluster. Addons are
// evaluated in input order and every supplied addon appears in the result:
// an unknown verdict for one addon never aborts the rest. Identical inputs
// against the same catalog yield identical reports.
func (a *Analyzer) Analyze(snap Snapshot) *Report {
	rep := &Report{
		ClusterName:            snap.ClusterName,
		CurrentPlatformVersion: snap.CurrentPlatformVersion,
		TargetPlatformVersion:  snap.TargetPlatformVersion,
		AddonAnalysis:          make([]AddonAnalysis, 0, len(snap.Addons)),
		Summary:                Summary{TotalAddons: len(snap.Addons)},
	}

	for _, addon := range snap.Addons {
		req, found := a.catalog.RequirementFor(addon.Name, snap.TargetPlatformVersion)
		verdict := Evaluate(addon.Version, req, found, a.critical[addon.Name])

		rep.AddonAnalysis = append(rep.AddonAnalysis, AddonAnalysis{
			AddonName:      addon.Name,
			CurrentVersion: addon.Version,
			Status:         verdict.Status,
			MinVersion:     verdict.MinVersion,
			MaxVersion:     verdict.MaxVersion,
			ActionRequired: verdict.ActionRequired,
		})

		switch verdict.Status {
		case StatusCompatible:
			rep.Summary.Pass++
		case StatusUpgradeRecommended:
			rep.Summary.Warning++
		case StatusUpgradeRequired:
			rep.Summary.Error++
		case StatusUnknown:
			rep.Summary.Unknown++
		}

		if verdict.Status == StatusUpgradeRequired {
			rep.UpgradeBlocked = true
			rep.BlockingIssues = append(rep.BlockingIssues, BlockingIssue{
				AddonName: addon.Name,
				Issue: fmt.Sprintf("installed version %s is below the minimum %s required for platform version %s",
					addon.Version, verdict.MinVersion, snap.TargetPlatformVersion),
				ActionRequired: verdict.ActionRequired,
			})
		}
	}

	return rep
}
