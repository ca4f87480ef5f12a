package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers collected by the interactive wizard.
type WizardResult struct {
	// AWS account surface
	Region  string
	Profile string

	// Cluster scope
	AssessAll    bool
	ClusterNames []string

	// Upgrade target
	TargetVersion string

	// Addons whose incompatibility blocks the upgrade
	CriticalAddons []string

	// Optional collection phases
	IncludeWorkloads bool

	// Report output
	OutputDir string
	Formats   []string
	S3Bucket  string
}

// RunWizard runs the interactive configuration wizard. The context is used
// for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runAccountGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	if err := runClusterScopeGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster scope: %w", err)
	}
	if err := runTargetGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("upgrade target: %w", err)
	}
	if err := runCriticalAddonsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("critical addons: %w", err)
	}
	if err := runCollectionGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	if err := runOutputGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	return result, nil
}
