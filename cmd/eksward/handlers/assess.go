// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/eksward/eksward/internal/assess"
	"github.com/eksward/eksward/internal/catalog"
	"github.com/eksward/eksward/internal/config"
	"github.com/eksward/eksward/internal/k8s"
	"github.com/eksward/eksward/internal/logging"
	eksplatform "github.com/eksward/eksward/internal/platform/eks"
	s3platform "github.com/eksward/eksward/internal/platform/s3"
	"github.com/eksward/eksward/internal/ui/progress"
)

const defaultConfigFile = "eksward.yaml"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// newEKSClient creates the regional EKS/STS client.
	newEKSClient = func(ctx context.Context, region, profile string) (*eksplatform.Client, error) {
		return eksplatform.NewClient(ctx, region, profile)
	}

	// newPublisher creates the S3 report publisher.
	newPublisher = func(ctx context.Context, cfg *config.Config) (assess.Publisher, error) {
		client, err := s3platform.NewClient(ctx, cfg.AWS.Region, cfg.AWS.Profile)
		if err != nil {
			return nil, err
		}
		return s3platform.NewPublisher(client, cfg.Output.S3Bucket), nil
	}

	// newWorkloadSource builds the per-cluster kubeconfig resolver.
	newWorkloadSource = func(kubeconfigPath string) assess.WorkloadSource {
		src := k8s.NewSource(kubeconfigPath)
		return func(clusterName string) (assess.WorkloadLister, error) {
			return src.ForCluster(clusterName)
		}
	}

	// runAssessment executes the configured run.
	runAssessment = func(ctx context.Context, opts assess.Options) (*assess.Result, error) {
		return assess.NewRunner(opts).Run(ctx)
	}

	// stdoutIsTerminal reports whether stdout is a TTY.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// AssessOptions carries the assess command flags.
type AssessOptions struct {
	ConfigPath    string
	TargetVersion string
	Clusters      []string
	Concurrency   int
	SkipInsights  bool
	Workloads     bool
	Kubeconfig    string
	OutputDir     string
	NoColor       bool
	Verbose       bool
	LogJSON       bool
}

// Assess runs a full upgrade readiness assessment.
//
// The handler loads the configuration, applies flag overrides, constructs
// the AWS clients and the catalog store, and hands everything to the
// assessment runner. On a TTY the run is wrapped in the progress UI;
// otherwise the runner's structured logs are the progress output. The
// terminal summary is rendered either way.
//
// Blocked clusters are a successful assessment outcome, not a command
// failure: the exit status reflects whether the run itself completed.
func Assess(ctx context.Context, opts AssessOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	applyAssessOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger, err := newLogger(opts.Verbose, opts.LogJSON)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newEKSClient(ctx, cfg.AWS.Region, cfg.AWS.Profile)
	if err != nil {
		return fmt.Errorf("failed to create EKS client: %w", err)
	}

	fetcher := catalog.NewFetcher(client, logger)
	store := catalog.NewStore(cfg.Output.Dir, cfg.AWS.Region, cfg.Cache.MaxAge, fetcher, logger)

	runnerOpts := assess.Options{
		Config:      cfg,
		Clusters:    client,
		Catalog:     store,
		Concurrency: opts.Concurrency,
		Logger:      logger,
	}

	if cfg.Output.S3Bucket != "" {
		publisher, err := newPublisher(ctx, cfg)
		if err != nil {
			logger.Warn("s3 publisher unavailable, reports stay local",
				zap.String("bucket", cfg.Output.S3Bucket), zap.Error(err))
		} else {
			runnerOpts.Publisher = publisher
		}
	}

	if cfg.Assessment.IncludeWorkloads {
		runnerOpts.Workloads = newWorkloadSource(opts.Kubeconfig)
	}

	var result *assess.Result
	if useProgressUI(opts.NoColor) {
		err = progress.Run(ctx, cfg.AWS.Region, cfg.Upgrade.TargetVersion,
			func(ctx context.Context, emit func(assess.Event)) error {
				runnerOpts.OnEvent = emit
				res, err := runAssessment(ctx, runnerOpts)
				if err != nil {
					return err
				}
				result = res
				return nil
			})
	} else {
		result, err = runAssessment(ctx, runnerOpts)
	}
	if err != nil {
		return err
	}

	fmt.Print(renderAssessSummary(result))
	return nil
}

// applyAssessOverrides folds the command-line overrides into the loaded
// configuration before validation.
func applyAssessOverrides(cfg *config.Config, opts AssessOptions) {
	if opts.TargetVersion != "" {
		cfg.Upgrade.TargetVersion = opts.TargetVersion
	}
	if len(opts.Clusters) > 0 {
		cfg.Clusters.Names = opts.Clusters
	}
	if opts.OutputDir != "" {
		cfg.Output.Dir = opts.OutputDir
	}
	if opts.SkipInsights {
		cfg.Assessment.IncludeInsights = false
	}
	if opts.Workloads {
		cfg.Assessment.IncludeWorkloads = true
	}
}

// useProgressUI decides between the bubbletea progress display and plain
// log output. CI pipelines and redirected stdout always get plain logs.
func useProgressUI(noColor bool) bool {
	if noColor || os.Getenv("CI") != "" {
		return false
	}
	return stdoutIsTerminal()
}

// loadConfig loads the assessment configuration, falling back to
// eksward.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		if !fileExists(defaultConfigFile) {
			return nil, fmt.Errorf("no config file found: create one with 'eksward init' or pass --config")
		}
		configPath = defaultConfigFile
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the handler logger from the persistent logging flags.
func newLogger(verbose, logJSON bool) (*zap.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	format := "console"
	if logJSON {
		format = "json"
	}
	return logging.New(level, format)
}
