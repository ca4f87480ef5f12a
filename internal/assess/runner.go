package assess

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/eksward/eksward/internal/compat"
	"github.com/eksward/eksward/internal/config"
	"github.com/eksward/eksward/internal/platform/eks"
	"github.com/eksward/eksward/internal/report"
	"github.com/eksward/eksward/internal/util/async"
	"github.com/eksward/eksward/internal/version"
)

// ErrNoClusters means discovery found nothing to assess.
var ErrNoClusters = errors.New("no clusters to assess")

// Options configures a Runner. Config, Clusters, and Catalog are required;
// the rest degrade gracefully when absent.
type Options struct {
	Config    *config.Config
	Clusters  ClusterAPI
	Catalog   CatalogSource
	Publisher Publisher      // optional, uploads artifacts after the run
	Workloads WorkloadSource // optional, enables PDB and daemonset checks

	// Concurrency bounds parallel cluster collection. Zero selects
	// min(4, number of clusters).
	Concurrency int

	Logger  *zap.Logger
	OnEvent func(Event) // optional, called from collection goroutines
}

// Result is the outcome of one assessment run.
type Result struct {
	RunID     string
	OutputDir string
	Identity  eks.Identity
	Clusters  []report.ClusterResult
	Summary   *report.RunSummary
	Artifacts []report.Artifact
}

// Runner executes assessment runs.
type Runner struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewRunner creates a runner. A nil logger is replaced with a no-op logger.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, logger: logger, now: time.Now}
}

// Run executes one assessment end to end: identity preflight, cluster
// resolution, catalog load, parallel collection and analysis, report
// writing, and optional upload. Per-cluster failures are recorded in the
// result and never abort the batch.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	cfg := r.opts.Config

	identity, err := r.opts.Clusters.VerifyIdentity(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Info("verified AWS identity",
		zap.String("account", identity.Account),
		zap.String("arn", identity.ARN))

	names := cfg.Clusters.Names
	if len(names) == 0 {
		names, err = r.opts.Clusters.ListClusters(ctx)
		if err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("region %s: %w", cfg.AWS.Region, ErrNoClusters)
	}

	cat, err := r.opts.Catalog.LoadOrFetch(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("catalog unavailable: %w", err)
	}
	analyzer := compat.NewAnalyzer(cat, cfg.Addons.Critical)

	startedAt := r.now().UTC()
	runID := fmt.Sprintf("%s-%s-%s-assessment",
		identity.Account, cfg.AWS.Region, startedAt.Format("20060102-150405"))
	runDir := filepath.Join(cfg.Output.Dir, runID)

	r.emit(Event{
		Type:     EventRunStarted,
		Clusters: names,
		Message:  fmt.Sprintf("assessing %d clusters against %s", len(names), cfg.Upgrade.TargetVersion),
	})

	results := make([]report.ClusterResult, len(names))
	tasks := make([]async.Task, len(names))
	for i, name := range names {
		tasks[i] = async.Task{
			Name: name,
			Func: func(ctx context.Context) error {
				r.emit(Event{Type: EventClusterStarted, Cluster: name})
				results[i] = r.assessCluster(ctx, analyzer, name)
				if results[i].Error != "" {
					r.emit(Event{Type: EventClusterFailed, Cluster: name, Message: results[i].Error})
				} else {
					r.emit(Event{Type: EventClusterCompleted, Cluster: name, Message: completionMessage(&results[i])})
				}
				// Failures live in the result entry; returning nil keeps
				// the batch running.
				return nil
			},
		}
	}

	limit := r.opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency(len(names))
	}
	if err := async.RunParallel(ctx, tasks, limit); err != nil {
		return nil, err
	}

	summary := report.BuildSummary(results, cfg.AWS.Region, cfg.Upgrade.TargetVersion, startedAt)

	writer := report.NewWriter(runDir, cfg.Output.Formats, r.logger)
	artifacts, err := writer.WriteAll(results, summary)
	if err != nil {
		return nil, err
	}

	r.publish(ctx, runID, artifacts)

	return &Result{
		RunID:     runID,
		OutputDir: runDir,
		Identity:  identity,
		Clusters:  results,
		Summary:   summary,
		Artifacts: artifacts,
	}, nil
}

// assessCluster collects one cluster and analyzes its addons. A failure of
// the core collection (metadata, addons) is returned in the Error field;
// the optional phases degrade to a log warning instead.
func (r *Runner) assessCluster(ctx context.Context, analyzer *compat.Analyzer, name string) report.ClusterResult {
	cfg := r.opts.Config
	res := report.ClusterResult{ClusterName: name}
	log := r.logger.With(zap.String("cluster", name))

	info, err := r.opts.Clusters.DescribeCluster(ctx, name)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Info = info

	r.checkVersionSkew(log, info.Version)

	addons, err := r.opts.Clusters.ListInstalledAddons(ctx, name)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	installed := make([]compat.InstalledAddon, 0, len(addons))
	for _, a := range addons {
		installed = append(installed, compat.InstalledAddon{Name: a.Name, Version: a.Version})
	}

	res.Compat = analyzer.Analyze(compat.Snapshot{
		ClusterName:            name,
		CurrentPlatformVersion: info.Version,
		TargetPlatformVersion:  cfg.Upgrade.TargetVersion,
		Addons:                 installed,
	})

	if cfg.Assessment.IncludeNodegroups {
		if groups, err := r.opts.Clusters.ListNodegroups(ctx, name); err != nil {
			log.Warn("nodegroup collection failed", zap.Error(err))
		} else {
			res.Nodegroups = groups
		}
	}

	if cfg.Assessment.IncludeInsights {
		if insights, err := r.opts.Clusters.ListUpgradeInsights(ctx, name); err != nil {
			log.Warn("insight collection failed", zap.Error(err))
		} else {
			res.Insights = insights
		}
	}

	if cfg.Assessment.IncludeWorkloads && r.opts.Workloads != nil {
		res.Workloads = r.collectWorkloads(ctx, log, name)
	}

	return res
}

// checkVersionSkew warns when the control-plane jump is not exactly one
// minor version. EKS applies upgrades one minor version at a time.
func (r *Runner) checkVersionSkew(log *zap.Logger, current string) {
	target := r.opts.Config.Upgrade.TargetVersion
	skew, err := version.MinorSkew(current, target)
	if err != nil {
		return
	}
	switch {
	case skew <= 0:
		log.Warn("cluster is already at or beyond the target version",
			zap.String("current", current),
			zap.String("target", target))
	case skew > 1:
		log.Warn("target is more than one minor version ahead; EKS upgrades apply one minor at a time",
			zap.String("current", current),
			zap.String("target", target),
			zap.Int("skew", skew))
	}
}

// collectWorkloads runs the drain checks for one cluster. The checks are
// advisory, so any failure degrades to a warning instead of failing the
// cluster.
func (r *Runner) collectWorkloads(ctx context.Context, log *zap.Logger, name string) []report.WorkloadWarning {
	lister, err := r.opts.Workloads(name)
	if err != nil {
		log.Warn("skipping workload checks", zap.Error(err))
		return nil
	}

	warnings, err := CheckWorkloads(ctx, lister)
	if err != nil {
		log.Warn("workload checks failed", zap.Error(err))
		return nil
	}
	return warnings
}

// publish uploads the run artifacts. Upload problems never fail the run;
// the reports already exist on local disk.
func (r *Runner) publish(ctx context.Context, runID string, artifacts []report.Artifact) {
	if r.opts.Publisher == nil {
		return
	}

	if err := r.opts.Publisher.Verify(ctx); err != nil {
		r.logger.Warn("skipping S3 upload", zap.Error(err))
		return
	}

	uploaded := 0
	for _, a := range artifacts {
		if err := r.opts.Publisher.PublishArtifact(ctx, runID, a.Cluster, a.Name, a.Data); err != nil {
			r.logger.Warn("failed to upload artifact",
				zap.String("cluster", a.Cluster),
				zap.String("name", a.Name),
				zap.Error(err))
			continue
		}
		uploaded++
	}
	r.logger.Info("uploaded run artifacts",
		zap.Int("uploaded", uploaded),
		zap.Int("total", len(artifacts)))
}

// emit delivers one event to the configured handler.
func (r *Runner) emit(ev Event) {
	if r.opts.OnEvent != nil {
		r.opts.OnEvent(ev)
	}
}

// completionMessage summarizes one assessed cluster for event consumers.
func completionMessage(res *report.ClusterResult) string {
	s := res.Compat.Summary
	if res.Compat.UpgradeBlocked {
		return fmt.Sprintf("blocked: %d of %d addons below minimum", s.Error, s.TotalAddons)
	}
	return fmt.Sprintf("%d addons: %d pass, %d warning, %d unknown", s.TotalAddons, s.Pass, s.Warning, s.Unknown)
}

// defaultConcurrency bounds parallel collection when no explicit limit is
// configured.
func defaultConcurrency(clusters int) int {
	if clusters < 4 {
		return clusters
	}
	return 4
}
