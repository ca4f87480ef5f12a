package assess

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	policyv1 "k8s.io/api/policy/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/eksward/eksward/internal/report"
)

// Workload warning severities. Warnings are advisory; none of them block
// the upgrade.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// minAvailableWarnPercent is the minAvailable percentage above which a PDB
// leaves too little eviction headroom for a rolling node replacement.
const minAvailableWarnPercent = 80

// CheckWorkloads inspects a cluster's workloads for configurations that
// stall node drains during the upgrade: PodDisruptionBudgets that permit no
// evictions and daemonsets pinned to node labels no node carries.
func CheckWorkloads(ctx context.Context, lister WorkloadLister) ([]report.WorkloadWarning, error) {
	pdbs, err := lister.ListPodDisruptionBudgets(ctx)
	if err != nil {
		return nil, err
	}

	daemonsets, err := lister.ListDaemonSets(ctx)
	if err != nil {
		return nil, err
	}

	nodes, err := lister.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	var warnings []report.WorkloadWarning
	for i := range pdbs {
		warnings = append(warnings, checkPDB(&pdbs[i])...)
	}
	for i := range daemonsets {
		if w := checkDaemonSet(&daemonsets[i], nodes); w != nil {
			warnings = append(warnings, *w)
		}
	}
	return warnings, nil
}

// checkPDB flags budgets that permit no evictions or leave little headroom.
func checkPDB(pdb *policyv1.PodDisruptionBudget) []report.WorkloadWarning {
	var warnings []report.WorkloadWarning

	add := func(issue, severity string) {
		warnings = append(warnings, report.WorkloadWarning{
			Namespace: pdb.Namespace,
			Name:      pdb.Name,
			Kind:      "PodDisruptionBudget",
			Issue:     issue,
			Severity:  severity,
		})
	}

	// A budget that selects no pods cannot stall a drain.
	if pdb.Status.ExpectedPods > 0 && pdb.Status.DisruptionsAllowed == 0 {
		add("no disruptions allowed; node drains will stall until pods can be evicted", SeverityHigh)
	}

	if v := pdb.Spec.MaxUnavailable; v != nil && intstrIsZero(v) {
		add("maxUnavailable 0 permits no voluntary evictions", SeverityHigh)
	}

	if v := pdb.Spec.MinAvailable; v != nil {
		if pct, ok := intstrPercent(v); ok && pct > minAvailableWarnPercent {
			add(fmt.Sprintf("minAvailable %d%% leaves little eviction headroom for node replacement", pct), SeverityMedium)
		}
	}

	return warnings
}

// checkDaemonSet flags daemonsets whose nodeSelector matches no current
// node. Their pods cannot land on replacement nodes that lack the labels.
func checkDaemonSet(ds *appsv1.DaemonSet, nodes []corev1.Node) *report.WorkloadWarning {
	selector := ds.Spec.Template.Spec.NodeSelector
	if len(selector) == 0 {
		return nil
	}

	for i := range nodes {
		if labelsMatch(nodes[i].Labels, selector) {
			return nil
		}
	}

	return &report.WorkloadWarning{
		Namespace: ds.Namespace,
		Name:      ds.Name,
		Kind:      "DaemonSet",
		Issue:     fmt.Sprintf("node selector %s matches no node in the cluster", formatSelector(selector)),
		Severity:  SeverityMedium,
	}
}

// labelsMatch reports whether labels satisfy every selector pair.
func labelsMatch(labels, selector map[string]string) bool {
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}

// formatSelector renders a selector deterministically for messages.
func formatSelector(selector map[string]string) string {
	keys := make([]string, 0, len(selector))
	for k := range selector {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+selector[k])
	}
	return strings.Join(pairs, ",")
}

// intstrIsZero reports whether the value is numeric zero or "0%".
func intstrIsZero(v *intstr.IntOrString) bool {
	if v.Type == intstr.Int {
		return v.IntValue() == 0
	}
	if pct, ok := intstrPercent(v); ok {
		return pct == 0
	}
	return v.StrVal == "0"
}

// intstrPercent extracts the percentage of a "NN%" string value.
func intstrPercent(v *intstr.IntOrString) (int, bool) {
	if v.Type != intstr.String || !strings.HasSuffix(v.StrVal, "%") {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(v.StrVal, "%"))
	if err != nil {
		return 0, false
	}
	return pct, true
}
