package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"go.uber.org/zap"

	"github.com/eksward/eksward/internal/version"
)

// Addon classification values, matching how the EKS console groups addons.
const (
	AddonTypeCoreAWS    = "core_aws"
	AddonTypeAWSManaged = "aws_managed"
	AddonTypeThirdParty = "third_party"
)

var coreAWSAddons = map[string]bool{
	"vpc-cni":            true,
	"coredns":            true,
	"kube-proxy":         true,
	"aws-ebs-csi-driver": true,
	"aws-efs-csi-driver": true,
	"aws-fsx-csi-driver": true,
}

var awsManagedAddons = map[string]bool{
	"aws-load-balancer-controller": true,
	"aws-for-fluent-bit":           true,
	"aws-cloudwatch-metrics":       true,
	"aws-node-termination-handler": true,
	"cluster-autoscaler":           true,
	"aws-distro-for-opentelemetry": true,
	"metrics-server":               true,
	"snapshot-controller":          true,
}

// ClassifyAddon maps an addon name to its classification bucket. Anything
// not recognized as an AWS addon is third party.
func ClassifyAddon(name string) string {
	switch {
	case coreAWSAddons[name]:
		return AddonTypeCoreAWS
	case awsManagedAddons[name]:
		return AddonTypeAWSManaged
	default:
		return AddonTypeThirdParty
	}
}

// Fetcher builds catalog entries from the EKS DescribeAddonVersions API.
// The data is cluster independent, so one fetch serves every cluster in an
// assessment run.
type Fetcher struct {
	client eks.DescribeAddonVersionsAPIClient
	logger *zap.Logger
}

// NewFetcher creates a fetcher over any client that can call
// DescribeAddonVersions.
func NewFetcher(client eks.DescribeAddonVersionsAPIClient, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

type pairKey struct {
	addon    string
	platform string
}

// versionSet accumulates the compatible versions seen for one
// addon/platform pair across API pages.
type versionSet struct {
	tokens     []version.Token
	defaultRaw string
}

type addonMeta struct {
	publisher string
	owner     string
}

// FetchEntries walks every DescribeAddonVersions page and derives one entry
// per (addon, cluster version) pair: the minimum and maximum compatible
// addon versions, and the provider default. Versions the provider reports
// in an unparsable format are skipped with a warning; when no version is
// flagged as the default, the newest compatible one stands in.
func (f *Fetcher) FetchEntries(ctx context.Context) ([]Entry, error) {
	sets := make(map[pairKey]*versionSet)
	meta := make(map[string]addonMeta)

	paginator := eks.NewDescribeAddonVersionsPaginator(f.client, &eks.DescribeAddonVersionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch addon versions: %w", err)
		}

		for _, info := range page.Addons {
			name := aws.ToString(info.AddonName)
			if name == "" {
				continue
			}
			meta[name] = addonMeta{
				publisher: aws.ToString(info.Publisher),
				owner:     aws.ToString(info.Owner),
			}

			for _, av := range info.AddonVersions {
				raw := aws.ToString(av.AddonVersion)
				tok, parseErr := version.Parse(raw)
				if parseErr != nil {
					f.logger.Warn("skipping unparsable addon version",
						zap.String("addon", name),
						zap.String("version", raw))
					continue
				}

				for _, compat := range av.Compatibilities {
					platform := aws.ToString(compat.ClusterVersion)
					if platform == "" {
						f.logger.Warn("skipping compatibility row without cluster version",
							zap.String("addon", name),
							zap.String("version", raw))
						continue
					}

					k := pairKey{addon: name, platform: platform}
					set := sets[k]
					if set == nil {
						set = &versionSet{}
						sets[k] = set
					}
					set.tokens = append(set.tokens, tok)
					if compat.DefaultVersion {
						set.defaultRaw = raw
					}
				}
			}
		}
	}

	entries := make([]Entry, 0, len(sets))
	for k, set := range sets {
		sort.Slice(set.tokens, func(i, j int) bool {
			return set.tokens[i].LessThan(set.tokens[j])
		})
		minTok := set.tokens[0]
		maxTok := set.tokens[len(set.tokens)-1]

		def := set.defaultRaw
		if def == "" {
			def = maxTok.String()
		}

		m := meta[k.addon]
		entries = append(entries, Entry{
			AddonName:       k.addon,
			PlatformVersion: k.platform,
			MinVersion:      minTok.String(),
			MaxVersion:      maxTok.String(),
			DefaultVersion:  def,
			AddonType:       ClassifyAddon(k.addon),
			Publisher:       m.publisher,
			Owner:           m.owner,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PlatformVersion != entries[j].PlatformVersion {
			return entries[i].PlatformVersion < entries[j].PlatformVersion
		}
		return entries[i].AddonName < entries[j].AddonName
	})

	return entries, nil
}
