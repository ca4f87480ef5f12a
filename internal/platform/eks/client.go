// Package eks provides a client for the Amazon EKS control-plane API.
package eks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/eksward/eksward/internal/util/retry"
)

// Client wraps the EKS and STS clients for assessment collection.
type Client struct {
	eks    *eks.Client
	sts    *sts.Client
	region string
}

// NewClient creates a new EKS client for the given region. An empty profile
// uses the default credential chain; otherwise the named shared-config
// profile is selected.
func NewClient(ctx context.Context, region, profile string) (*Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		eks:    eks.NewFromConfig(cfg),
		sts:    sts.NewFromConfig(cfg),
		region: region,
	}, nil
}

// Region returns the region the client operates in.
func (c *Client) Region() string { return c.region }

// Identity describes the AWS principal the assessment runs as.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// VerifyIdentity resolves the caller identity via STS. It runs before any
// assessment so credential problems surface as one clear failure instead of
// a string of opaque API errors.
func (c *Client) VerifyIdentity(ctx context.Context) (Identity, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to verify AWS credentials (check profile and region): %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// ClusterInfo is the cluster metadata collected for assessment. Version is
// the Kubernetes minor version ("1.32"); PlatformVersion is the EKS
// platform revision ("eks.12").
type ClusterInfo struct {
	Name            string            `json:"name"`
	ARN             string            `json:"arn"`
	Version         string            `json:"version"`
	PlatformVersion string            `json:"platform_version"`
	Status          string            `json:"status"`
	Endpoint        string            `json:"endpoint,omitempty"`
	CreatedAt       *time.Time        `json:"created_at,omitempty"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// ListClusters returns the names of all clusters in the region.
func (c *Client) ListClusters(ctx context.Context) ([]string, error) {
	var names []string

	paginator := eks.NewListClustersPaginator(c.eks, &eks.ListClustersInput{})
	for paginator.HasMorePages() {
		page, err := callWithRetry(ctx, func(ctx context.Context) (*eks.ListClustersOutput, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", c.region, err)
		}
		names = append(names, page.Clusters...)
	}

	return names, nil
}

// DescribeCluster returns the metadata for one cluster.
func (c *Client) DescribeCluster(ctx context.Context, name string) (*ClusterInfo, error) {
	out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("cluster %s not found in %s: %w", name, c.region, err)
		}
		return nil, fmt.Errorf("failed to describe cluster %s: %w", name, err)
	}

	cl := out.Cluster
	return &ClusterInfo{
		Name:            aws.ToString(cl.Name),
		ARN:             aws.ToString(cl.Arn),
		Version:         aws.ToString(cl.Version),
		PlatformVersion: aws.ToString(cl.PlatformVersion),
		Status:          string(cl.Status),
		Endpoint:        aws.ToString(cl.Endpoint),
		CreatedAt:       cl.CreatedAt,
		Tags:            cl.Tags,
	}, nil
}

// Addon is one installed managed addon, in the order the API lists them.
type Addon struct {
	Name    string `json:"addon_name"`
	Version string `json:"installed_version"`
	Status  string `json:"status,omitempty"`
}

// ListInstalledAddons lists the managed addons installed on a cluster with
// their versions. A cluster without addons returns an empty slice.
func (c *Client) ListInstalledAddons(ctx context.Context, clusterName string) ([]Addon, error) {
	var names []string

	paginator := eks.NewListAddonsPaginator(c.eks, &eks.ListAddonsInput{
		ClusterName: aws.String(clusterName),
	})
	for paginator.HasMorePages() {
		page, err := callWithRetry(ctx, func(ctx context.Context) (*eks.ListAddonsOutput, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list addons for %s: %w", clusterName, err)
		}
		names = append(names, page.Addons...)
	}

	addons := make([]Addon, 0, len(names))
	for _, name := range names {
		out, err := c.eks.DescribeAddon(ctx, &eks.DescribeAddonInput{
			ClusterName: aws.String(clusterName),
			AddonName:   aws.String(name),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe addon %s on %s: %w", name, clusterName, err)
		}
		addons = append(addons, Addon{
			Name:    aws.ToString(out.Addon.AddonName),
			Version: aws.ToString(out.Addon.AddonVersion),
			Status:  string(out.Addon.Status),
		})
	}

	return addons, nil
}

// Nodegroup is the nodegroup metadata relevant to an upgrade assessment.
type Nodegroup struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	ReleaseVersion string `json:"release_version,omitempty"`
	AMIType        string `json:"ami_type,omitempty"`
	Status         string `json:"status"`
}

// ListNodegroups lists the managed nodegroups of a cluster with their
// Kubernetes versions.
func (c *Client) ListNodegroups(ctx context.Context, clusterName string) ([]Nodegroup, error) {
	var names []string

	paginator := eks.NewListNodegroupsPaginator(c.eks, &eks.ListNodegroupsInput{
		ClusterName: aws.String(clusterName),
	})
	for paginator.HasMorePages() {
		page, err := callWithRetry(ctx, func(ctx context.Context) (*eks.ListNodegroupsOutput, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list nodegroups for %s: %w", clusterName, err)
		}
		names = append(names, page.Nodegroups...)
	}

	groups := make([]Nodegroup, 0, len(names))
	for _, name := range names {
		out, err := c.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
			ClusterName:   aws.String(clusterName),
			NodegroupName: aws.String(name),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe nodegroup %s on %s: %w", name, clusterName, err)
		}
		ng := out.Nodegroup
		groups = append(groups, Nodegroup{
			Name:           aws.ToString(ng.NodegroupName),
			Version:        aws.ToString(ng.Version),
			ReleaseVersion: aws.ToString(ng.ReleaseVersion),
			AMIType:        string(ng.AmiType),
			Status:         string(ng.Status),
		})
	}

	return groups, nil
}

// Insight is one EKS upgrade insight. Recommendation is populated only for
// insights that are not passing.
type Insight struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	TargetVersion  string `json:"target_version,omitempty"`
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// ListUpgradeInsights returns the upgrade-readiness insights for a cluster.
// Non-passing insights are enriched with the detailed recommendation from
// DescribeInsight. Regions where the Insights API is unavailable return an
// empty slice rather than an error.
func (c *Client) ListUpgradeInsights(ctx context.Context, clusterName string) ([]Insight, error) {
	var summaries []types.InsightSummary

	paginator := eks.NewListInsightsPaginator(c.eks, &eks.ListInsightsInput{
		ClusterName: aws.String(clusterName),
		Filter: &types.InsightsFilter{
			Categories: []types.Category{types.CategoryUpgradeReadiness},
		},
	})
	for paginator.HasMorePages() {
		page, err := callWithRetry(ctx, func(ctx context.Context) (*eks.ListInsightsOutput, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			if isUnsupportedOperation(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list insights for %s: %w", clusterName, err)
		}
		summaries = append(summaries, page.Insights...)
	}

	insights := make([]Insight, 0, len(summaries))
	for _, s := range summaries {
		in := Insight{
			ID:            aws.ToString(s.Id),
			Name:          aws.ToString(s.Name),
			Category:      string(s.Category),
			TargetVersion: aws.ToString(s.KubernetesVersion),
		}
		if s.InsightStatus != nil {
			in.Status = string(s.InsightStatus.Status)
			in.Reason = aws.ToString(s.InsightStatus.Reason)
		}

		if in.Status != string(types.InsightStatusValuePassing) && in.ID != "" {
			detail, err := c.eks.DescribeInsight(ctx, &eks.DescribeInsightInput{
				ClusterName: aws.String(clusterName),
				Id:          s.Id,
			})
			if err == nil && detail.Insight != nil {
				in.Recommendation = aws.ToString(detail.Insight.Recommendation)
			}
		}

		insights = append(insights, in)
	}

	return insights, nil
}

// DescribeAddonVersions exposes the raw API call so the catalog fetcher can
// drive its own paginator. Throttled calls are retried with backoff; other
// failures return immediately.
func (c *Client) DescribeAddonVersions(ctx context.Context, params *eks.DescribeAddonVersionsInput, optFns ...func(*eks.Options)) (*eks.DescribeAddonVersionsOutput, error) {
	return callWithRetry(ctx, func(ctx context.Context) (*eks.DescribeAddonVersionsOutput, error) {
		return c.eks.DescribeAddonVersions(ctx, params, optFns...)
	})
}

// callWithRetry retries throttled API calls with exponential backoff and
// fails fast on everything else.
func callWithRetry[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	var out T
	err := retry.Do(ctx, func() error {
		var callErr error
		out, callErr = call(ctx)
		if callErr == nil {
			return nil
		}
		if isThrottleError(callErr) {
			return callErr
		}
		return retry.Fatal(callErr)
	}, retry.WithMaxRetries(4), retry.WithInitialDelay(500*time.Millisecond))
	return out, err
}

// isNotFoundError checks if the error reports a missing EKS resource.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return true
	}

	// Fall back to API error code checking
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "ResourceNotFoundException" || code == "NotFound"
	}

	return false
}

// isThrottleError checks if the error is an API rate limit rejection.
func isThrottleError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException", "RequestLimitExceeded":
			return true
		}
	}

	return false
}

// isUnsupportedOperation checks if the error means the API does not exist
// in the target region or partition.
func isUnsupportedOperation(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "UnsupportedOperationException" || code == "UnknownOperationException" || code == "InvalidAction"
	}

	return false
}
