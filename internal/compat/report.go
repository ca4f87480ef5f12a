package compat

// AddonAnalysis is the per-addon row of a cluster report, serialized with
// the externally documented field names.
type AddonAnalysis struct {
	AddonName      string `json:"addon_name"`
	CurrentVersion string `json:"current_version"`
	Status         Status `json:"status"`
	MinVersion     string `json:"min_version,omitempty"`
	MaxVersion     string `json:"max_version,omitempty"`
	ActionRequired string `json:"action_required"`
}

// Summary counts verdicts by external status word.
type Summary struct {
	TotalAddons int `json:"total_addons"`
	Pass        int `json:"pass"`
	Warning     int `json:"warning"`
	Error       int `json:"error"`
	Unknown     int `json:"unknown"`
}

// BlockingIssue describes one addon that blocks the platform upgrade.
type BlockingIssue struct {
	AddonName      string `json:"addon_name"`
	Issue          string `json:"issue"`
	ActionRequired string `json:"action_required"`
}

// Report is the addon compatibility result for one cluster. AddonAnalysis
// preserves the input addon order so reports from consecutive runs diff
// cleanly. UpgradeBlocked is true iff any addon carries an error status,
// which only critical addons below the minimum produce.
type Report struct {
	ClusterName            string          `json:"cluster_name"`
	CurrentPlatformVersion string          `json:"current_platform_version,omitempty"`
	TargetPlatformVersion  string          `json:"target_platform_version"`
	UpgradeBlocked         bool            `json:"upgrade_blocked"`
	AddonAnalysis          []AddonAnalysis `json:"addon_analysis"`
	Summary                Summary         `json:"summary"`
	BlockingIssues         []BlockingIssue `json:"blocking_issues,omitempty"`
}
