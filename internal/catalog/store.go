package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	sharedDataDir = "shared-data"
	cacheFileName = "eks-addon-versions.json"
)

// cacheFile is the on-disk format of the shared catalog cache.
type cacheFile struct {
	Metadata cacheMetadata `json:"metadata"`
	Entries  []Entry       `json:"entries"`
}

type cacheMetadata struct {
	GeneratedAt      time.Time `json:"generated_at"`
	Region           string    `json:"region"`
	PlatformVersions []string  `json:"platform_versions"`
	TotalAddons      int       `json:"total_addons"`
	TotalEntries     int       `json:"total_entries"`
}

// Mirror receives a copy of every saved catalog file, typically to publish
// it to an S3 bucket alongside the reports.
type Mirror interface {
	MirrorCatalog(ctx context.Context, data []byte) error
}

// Store persists catalogs under <outputDir>/shared-data so repeated
// assessment runs share one fetch. The cache is addon version data for the
// whole region and is independent of any cluster.
type Store struct {
	dir     string
	region  string
	maxAge  time.Duration
	fetcher *Fetcher
	mirror  Mirror
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore creates a store rooted at outputDir. A maxAge of zero or less
// means cached catalogs never expire.
func NewStore(outputDir, region string, maxAge time.Duration, fetcher *Fetcher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:     filepath.Join(outputDir, sharedDataDir),
		region:  region,
		maxAge:  maxAge,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// SetMirror configures an optional mirror target. Mirror failures are
// logged, never fatal.
func (s *Store) SetMirror(m Mirror) { s.mirror = m }

// Path returns the cache file location.
func (s *Store) Path() string { return filepath.Join(s.dir, cacheFileName) }

// Load reads and validates the cached catalog, returning it together with
// its age. A missing cache file reports fs.ErrNotExist.
func (s *Store) Load() (*Catalog, time.Duration, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, 0, fmt.Errorf("corrupt catalog cache %s: %w", s.Path(), err)
	}

	cat, err := Build(cf.Entries, cf.Metadata.GeneratedAt, cf.Metadata.Region, s.logger)
	if err != nil {
		return nil, 0, err
	}

	return cat, s.now().Sub(cf.Metadata.GeneratedAt), nil
}

// Save writes the catalog cache atomically via a temp file and rename, then
// mirrors it when a mirror is configured.
func (s *Store) Save(ctx context.Context, cat *Catalog) error {
	cf := cacheFile{
		Metadata: cacheMetadata{
			GeneratedAt:      cat.FetchedAt(),
			Region:           cat.Region(),
			PlatformVersions: cat.PlatformVersions(),
			TotalAddons:      len(cat.Addons()),
			TotalEntries:     cat.Len(),
		},
		Entries: cat.Entries(),
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog cache: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create shared-data directory: %w", err)
	}

	tmpPath := s.Path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("failed to replace catalog cache: %w", err)
	}

	s.logger.Info("saved addon version catalog",
		zap.String("path", s.Path()),
		zap.Int("entries", cat.Len()))

	if s.mirror != nil {
		if err := s.mirror.MirrorCatalog(ctx, data); err != nil {
			s.logger.Warn("failed to mirror catalog", zap.Error(err))
		}
	}

	return nil
}

// LoadOrFetch returns the cached catalog when it is present, usable, and
// younger than the max age. Otherwise, or when force is set, it fetches a
// fresh catalog and saves it. A failed refresh falls back to a stale cache
// when one exists; with no cache at all the failure is fatal.
func (s *Store) LoadOrFetch(ctx context.Context, force bool) (*Catalog, error) {
	var stale *Catalog

	if !force {
		cat, age, err := s.Load()
		switch {
		case err == nil && (s.maxAge <= 0 || age <= s.maxAge):
			s.logger.Info("using cached addon version catalog",
				zap.String("path", s.Path()),
				zap.Duration("age", age))
			return cat, nil
		case err == nil:
			s.logger.Info("cached addon version catalog is stale, refreshing",
				zap.Duration("age", age),
				zap.Duration("max_age", s.maxAge))
			stale = cat
		case !errors.Is(err, fs.ErrNotExist):
			s.logger.Warn("ignoring unreadable catalog cache", zap.Error(err))
		}
	}

	s.logger.Info("fetching addon version catalog", zap.String("region", s.region))
	entries, err := s.fetcher.FetchEntries(ctx)
	if err == nil {
		var cat *Catalog
		cat, err = Build(entries, s.now().UTC(), s.region, s.logger)
		if err == nil {
			if saveErr := s.Save(ctx, cat); saveErr != nil {
				s.logger.Warn("failed to save catalog cache", zap.Error(saveErr))
			}
			return cat, nil
		}
	}

	if stale != nil {
		s.logger.Warn("catalog refresh failed, falling back to stale cache", zap.Error(err))
		return stale, nil
	}
	return nil, fmt.Errorf("failed to refresh addon version catalog: %w", err)
}
