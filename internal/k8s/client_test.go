package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	policyv1 "k8s.io/api/policy/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

func TestListPodDisruptionBudgets(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := k8sfake.NewSimpleClientset(
		&policyv1.PodDisruptionBudget{
			ObjectMeta: metav1.ObjectMeta{Name: "api-pdb", Namespace: "prod"},
		},
		&policyv1.PodDisruptionBudget{
			ObjectMeta: metav1.ObjectMeta{Name: "coredns-pdb", Namespace: "kube-system"},
		},
	)

	client := NewFromClientset(clientset)
	pdbs, err := client.ListPodDisruptionBudgets(context.Background())
	require.NoError(t, err)
	assert.Len(t, pdbs, 2)

	names := make([]string, 0, len(pdbs))
	for _, pdb := range pdbs {
		names = append(names, pdb.Namespace+"/"+pdb.Name)
	}
	assert.Contains(t, names, "prod/api-pdb")
	assert.Contains(t, names, "kube-system/coredns-pdb")
}

func TestListPodDisruptionBudgets_Empty(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	client := NewFromClientset(k8sfake.NewSimpleClientset())

	pdbs, err := client.ListPodDisruptionBudgets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pdbs)
}

func TestListDaemonSets(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := k8sfake.NewSimpleClientset(
		&appsv1.DaemonSet{
			ObjectMeta: metav1.ObjectMeta{Name: "node-exporter", Namespace: "monitoring"},
		},
	)

	client := NewFromClientset(clientset)
	daemonsets, err := client.ListDaemonSets(context.Background())
	require.NoError(t, err)
	require.Len(t, daemonsets, 1)
	assert.Equal(t, "node-exporter", daemonsets[0].Name)
}

func TestListNodes(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := k8sfake.NewSimpleClientset(
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "ip-10-0-1-10.ec2.internal"}},
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "ip-10-0-2-20.ec2.internal"}},
	)

	client := NewFromClientset(clientset)
	nodes, err := client.ListNodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}
