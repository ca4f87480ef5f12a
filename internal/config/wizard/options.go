package wizard

import "github.com/charmbracelet/huh"

// RegionOption represents an AWS region choice.
type RegionOption struct {
	Value       string
	Label       string
	Description string
}

// VersionOption represents an EKS control-plane version choice.
type VersionOption struct {
	Value       string
	Label       string
	Description string
}

// AddonOption represents a managed addon offered for criticality selection.
type AddonOption struct {
	Key         string
	Label       string
	Description string
	Default     bool
}

// Regions contains the commercial AWS regions offered by the wizard.
var Regions = []RegionOption{
	{Value: "us-east-1", Label: "us-east-1", Description: "US East (N. Virginia)"},
	{Value: "us-east-2", Label: "us-east-2", Description: "US East (Ohio)"},
	{Value: "us-west-2", Label: "us-west-2", Description: "US West (Oregon)"},
	{Value: "eu-west-1", Label: "eu-west-1", Description: "Europe (Ireland)"},
	{Value: "eu-central-1", Label: "eu-central-1", Description: "Europe (Frankfurt)"},
	{Value: "ap-southeast-1", Label: "ap-southeast-1", Description: "Asia Pacific (Singapore)"},
	{Value: "ap-southeast-2", Label: "ap-southeast-2", Description: "Asia Pacific (Sydney)"},
	{Value: "ap-northeast-1", Label: "ap-northeast-1", Description: "Asia Pacific (Tokyo)"},
}

// TargetVersions contains the EKS versions offered as upgrade targets,
// newest first.
var TargetVersions = []VersionOption{
	{Value: "1.34", Label: "1.34", Description: "Latest"},
	{Value: "1.33", Label: "1.33", Description: "Standard support"},
	{Value: "1.32", Label: "1.32", Description: "Standard support"},
	{Value: "1.31", Label: "1.31", Description: "Extended support"},
	{Value: "1.30", Label: "1.30", Description: "Extended support"},
}

// CriticalAddonChoices contains the addons the wizard offers for the
// critical set. Defaults follow the cluster networking trio.
var CriticalAddonChoices = []AddonOption{
	{Key: "vpc-cni", Label: "VPC CNI", Description: "Pod networking", Default: true},
	{Key: "coredns", Label: "CoreDNS", Description: "Cluster DNS", Default: true},
	{Key: "kube-proxy", Label: "kube-proxy", Description: "Service routing", Default: true},
	{Key: "aws-ebs-csi-driver", Label: "EBS CSI Driver", Description: "Block storage volumes", Default: false},
	{Key: "aws-efs-csi-driver", Label: "EFS CSI Driver", Description: "Shared file storage", Default: false},
	{Key: "aws-load-balancer-controller", Label: "Load Balancer Controller", Description: "ALB/NLB provisioning", Default: false},
}

// FormatChoices contains the report formats the wizard offers.
var FormatChoices = []huh.Option[string]{
	huh.NewOption("JSON - machine readable report", "json"),
	huh.NewOption("Markdown - human readable report", "markdown"),
	huh.NewOption("YAML - machine readable report", "yaml"),
}

// RegionsToOptions converts the region list to huh select options.
func RegionsToOptions() []huh.Option[string] {
	options := make([]huh.Option[string], len(Regions))
	for i, region := range Regions {
		options[i] = huh.NewOption(region.Label+" - "+region.Description, region.Value)
	}
	return options
}

// VersionsToOptions converts the version list to huh select options.
func VersionsToOptions() []huh.Option[string] {
	options := make([]huh.Option[string], len(TargetVersions))
	for i, version := range TargetVersions {
		options[i] = huh.NewOption(version.Label+" - "+version.Description, version.Value)
	}
	return options
}
