package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eksward/eksward/internal/catalog"
	"github.com/eksward/eksward/internal/config"
	s3platform "github.com/eksward/eksward/internal/platform/s3"
)

// catalogStore is the store surface the prepare handler needs.
// Implemented by internal/catalog.Store.
type catalogStore interface {
	LoadOrFetch(ctx context.Context, force bool) (*catalog.Catalog, error)
	Path() string
	SetMirror(m catalog.Mirror)
}

// Factory function variables for prepare - can be replaced in tests.
var (
	// newCatalogStore builds the disk-backed catalog store.
	newCatalogStore = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (catalogStore, error) {
		client, err := newEKSClient(ctx, cfg.AWS.Region, cfg.AWS.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to create EKS client: %w", err)
		}
		fetcher := catalog.NewFetcher(client, logger)
		return catalog.NewStore(cfg.Output.Dir, cfg.AWS.Region, cfg.Cache.MaxAge, fetcher, logger), nil
	}

	// newCatalogMirror builds the S3 mirror for the shared catalog.
	newCatalogMirror = func(ctx context.Context, cfg *config.Config) (catalog.Mirror, error) {
		client, err := s3platform.NewClient(ctx, cfg.AWS.Region, cfg.AWS.Profile)
		if err != nil {
			return nil, err
		}
		publisher := s3platform.NewPublisher(client, cfg.Output.S3Bucket)
		if err := publisher.Verify(ctx); err != nil {
			return nil, err
		}
		return publisher, nil
	}
)

// PrepareOptions carries the prepare command flags.
type PrepareOptions struct {
	ConfigPath   string
	ForceRefresh bool
	Region       string
	Verbose      bool
	LogJSON      bool
}

// Prepare builds or refreshes the addon version catalog. With a fresh
// cache this is a no-op unless ForceRefresh is set.
func Prepare(ctx context.Context, opts PrepareOptions) error {
	cfg, err := loadPrepareConfig(opts)
	if err != nil {
		return err
	}
	if opts.Region != "" {
		cfg.AWS.Region = opts.Region
	}

	logger, err := newLogger(opts.Verbose, opts.LogJSON)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := newCatalogStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Output.S3Bucket != "" {
		mirror, err := newCatalogMirror(ctx, cfg)
		if err != nil {
			logger.Warn("catalog mirror unavailable, cache stays local",
				zap.String("bucket", cfg.Output.S3Bucket), zap.Error(err))
		} else {
			store.SetMirror(mirror)
		}
	}

	cat, err := store.LoadOrFetch(ctx, opts.ForceRefresh)
	if err != nil {
		return err
	}

	printCatalogSummary(cat, store.Path())
	return nil
}

// loadPrepareConfig resolves the prepare configuration. Unlike assess,
// prepare can run without any config file as long as a region is known;
// a config file that exists but fails to load is still an error.
func loadPrepareConfig(opts PrepareOptions) (*config.Config, error) {
	if opts.ConfigPath == "" && !fileExists(defaultConfigFile) {
		if opts.Region == "" {
			return nil, fmt.Errorf("no config file found: create one with 'eksward init', or pass --region")
		}
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return loadConfig(opts.ConfigPath)
}

func printCatalogSummary(cat *catalog.Catalog, path string) {
	fmt.Println()
	fmt.Printf("Catalog ready for %s\n", cat.Region())
	fmt.Printf("  requirements:      %d\n", cat.Len())
	fmt.Printf("  addons:            %d\n", len(cat.Addons()))
	fmt.Printf("  platform versions: %s\n", strings.Join(cat.PlatformVersions(), ", "))
	fmt.Printf("  fetched at:        %s\n", cat.FetchedAt().UTC().Format(time.RFC3339))
	fmt.Printf("  cache file:        %s\n", path)
	fmt.Println()
}
