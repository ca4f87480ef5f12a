package assess

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	policyv1 "k8s.io/api/policy/v1"

	"github.com/eksward/eksward/internal/catalog"
	"github.com/eksward/eksward/internal/platform/eks"
)

// ClusterAPI is the EKS control-plane surface the runner collects from.
// Implemented by internal/platform/eks.Client.
type ClusterAPI interface {
	// VerifyIdentity resolves the AWS principal before any collection.
	VerifyIdentity(ctx context.Context) (eks.Identity, error)

	// ListClusters returns the names of all clusters in the region.
	ListClusters(ctx context.Context) ([]string, error)

	// DescribeCluster returns the metadata for one cluster.
	DescribeCluster(ctx context.Context, name string) (*eks.ClusterInfo, error)

	// ListInstalledAddons lists the managed addons installed on a cluster
	// with their versions.
	ListInstalledAddons(ctx context.Context, clusterName string) ([]eks.Addon, error)

	// ListNodegroups lists the managed nodegroups of a cluster.
	ListNodegroups(ctx context.Context, clusterName string) ([]eks.Nodegroup, error)

	// ListUpgradeInsights returns the upgrade-readiness insights for a
	// cluster.
	ListUpgradeInsights(ctx context.Context, clusterName string) ([]eks.Insight, error)
}

// CatalogSource loads the addon version catalog the analysis evaluates
// against. Implemented by internal/catalog.Store.
type CatalogSource interface {
	LoadOrFetch(ctx context.Context, force bool) (*catalog.Catalog, error)
}

// Publisher uploads finished report artifacts. Implemented by
// internal/platform/s3.Publisher.
type Publisher interface {
	Verify(ctx context.Context) error
	PublishArtifact(ctx context.Context, runID, clusterName, fileName string, data []byte) error
}

// WorkloadLister reads the workload objects relevant to node drains.
// Implemented by internal/k8s.Client.
type WorkloadLister interface {
	ListPodDisruptionBudgets(ctx context.Context) ([]policyv1.PodDisruptionBudget, error)
	ListDaemonSets(ctx context.Context) ([]appsv1.DaemonSet, error)
	ListNodes(ctx context.Context) ([]corev1.Node, error)
}

// WorkloadSource opens the workload view of one assessed cluster. Wired
// from internal/k8s.Source.ForCluster; nil disables workload checks.
type WorkloadSource func(clusterName string) (WorkloadLister, error)
