package wizard

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/eksward/eksward/internal/config"
)

// bucketNameRegex matches valid S3 bucket names.
var bucketNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// runAccountGroup prompts for the AWS region and optional profile.
func runAccountGroup(ctx context.Context, result *WizardResult) error {
	result.Region = config.DefaultRegion

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("AWS Region").
				Description("Region whose EKS clusters will be assessed").
				Options(RegionsToOptions()...).
				Value(&result.Region),
			huh.NewInput().
				Title("AWS Profile (Optional)").
				Description("Shared config profile. Leave empty for the default credential chain.").
				Placeholder("default").
				Value(&result.Profile),
		).Title("AWS Account"),
	).RunWithContext(ctx)
}

// runClusterScopeGroup prompts for which clusters to assess.
func runClusterScopeGroup(ctx context.Context, result *WizardResult) error {
	result.AssessAll = true

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Assess All Clusters?").
				Description("Discover and assess every EKS cluster in the region").
				Value(&result.AssessAll),
		).Title("Cluster Scope"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if result.AssessAll {
		return nil
	}

	var namesInput string
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Names").
				Description("Comma-separated EKS cluster names").
				Placeholder("prod-cluster, staging-cluster").
				Value(&namesInput).
				Validate(validateClusterNames),
		).Title("Clusters"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.ClusterNames = parseClusterNames(namesInput)
	return nil
}

// runTargetGroup prompts for the target control-plane version.
func runTargetGroup(ctx context.Context, result *WizardResult) error {
	result.TargetVersion = TargetVersions[0].Value

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target Version").
				Description("Control-plane version the clusters will be upgraded to").
				Options(VersionsToOptions()...).
				Value(&result.TargetVersion),
		).Title("Upgrade Target"),
	).RunWithContext(ctx)
}

// runCriticalAddonsGroup prompts for the critical addon set.
func runCriticalAddonsGroup(ctx context.Context, result *WizardResult) error {
	options := make([]huh.Option[string], len(CriticalAddonChoices))
	defaultSelected := []string{}

	for i, addon := range CriticalAddonChoices {
		options[i] = huh.NewOption(addon.Label+" - "+addon.Description, addon.Key)
		if addon.Default {
			defaultSelected = append(defaultSelected, addon.Key)
		}
	}

	// Pre-select the defaults.
	result.CriticalAddons = defaultSelected

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Critical Addons").
				Description("An incompatible critical addon blocks the upgrade; others only warn").
				Options(options...).
				Value(&result.CriticalAddons),
		).Title("Criticality"),
	).RunWithContext(ctx)
}

// runCollectionGroup prompts for optional collection phases.
func runCollectionGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Check Workload Disruption Budgets?").
				Description("Requires kubeconfig access to each assessed cluster").
				Value(&result.IncludeWorkloads),
		).Title("Collection"),
	).RunWithContext(ctx)
}

// runOutputGroup prompts for report destination settings.
func runOutputGroup(ctx context.Context, result *WizardResult) error {
	result.OutputDir = config.DefaultOutputDir
	result.Formats = append([]string(nil), config.DefaultFormats...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Report Formats").
				Options(FormatChoices...).
				Value(&result.Formats).
				Validate(validateFormats),
			huh.NewInput().
				Title("Output Directory").
				Description("Local directory for assessment reports").
				Value(&result.OutputDir).
				Validate(validateOutputDir),
			huh.NewInput().
				Title("S3 Bucket (Optional)").
				Description("Bucket for publishing reports. Leave empty to keep reports local.").
				Placeholder("my-assessment-reports").
				Value(&result.S3Bucket).
				Validate(validateBucketName),
		).Title("Output"),
	).RunWithContext(ctx)
}

// validateClusterNames requires at least one non-empty cluster name.
func validateClusterNames(input string) error {
	if len(parseClusterNames(input)) == 0 {
		return errClusterNamesRequired
	}
	return nil
}

// validateOutputDir rejects blank directories.
func validateOutputDir(input string) error {
	if strings.TrimSpace(input) == "" {
		return errOutputDirRequired
	}
	return nil
}

// validateFormats requires at least one selected format.
func validateFormats(selected []string) error {
	if len(selected) == 0 {
		return errFormatRequired
	}
	return nil
}

// validateBucketName accepts an empty value since the bucket is optional.
func validateBucketName(input string) error {
	if input == "" {
		return nil
	}
	if !bucketNameRegex.MatchString(input) {
		return errBucketNameInvalid
	}
	return nil
}

// parseClusterNames splits a comma-separated list into trimmed names.
func parseClusterNames(input string) []string {
	parts := strings.Split(input, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
