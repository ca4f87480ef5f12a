package k8s

import (
	"fmt"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
)

// Source opens per-cluster clients from one kubeconfig. `aws eks
// update-kubeconfig` names contexts by cluster ARN
// ("arn:aws:eks:<region>:<account>:cluster/<name>"), so the assessed
// cluster name maps to a context by exact or ARN-suffix match.
type Source struct {
	kubeconfigPath string
}

// NewSource creates a source over the given kubeconfig path. An empty path
// uses the default loading rules.
func NewSource(kubeconfigPath string) *Source {
	return &Source{kubeconfigPath: kubeconfigPath}
}

// ForCluster opens a client for the named cluster. It fails when no
// kubeconfig context references the cluster; checking whatever the current
// context points at would attribute findings to the wrong cluster.
func (s *Source) ForCluster(clusterName string) (*Client, error) {
	contextName, err := s.resolveContext(clusterName)
	if err != nil {
		return nil, err
	}
	return NewClient(s.kubeconfigPath, contextName)
}

// resolveContext finds the kubeconfig context referencing clusterName.
func (s *Source) resolveContext(clusterName string) (string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if s.kubeconfigPath != "" {
		rules.ExplicitPath = s.kubeconfigPath
	}

	raw, err := rules.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	for name, kctx := range raw.Contexts {
		if matchesCluster(name, clusterName) || matchesCluster(kctx.Cluster, clusterName) {
			return name, nil
		}
	}

	return "", fmt.Errorf("no kubeconfig context references cluster %s", clusterName)
}

// matchesCluster reports whether a context or cluster entry refers to the
// EKS cluster: an exact name or an ARN ending in "cluster/<name>".
func matchesCluster(entry, clusterName string) bool {
	return entry == clusterName || strings.HasSuffix(entry, "/"+clusterName)
}
