//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eksward/eksward/internal/assess"
	"github.com/eksward/eksward/internal/catalog"
	"github.com/eksward/eksward/internal/config"
	eksplatform "github.com/eksward/eksward/internal/platform/eks"
	s3platform "github.com/eksward/eksward/internal/platform/s3"
	"github.com/eksward/eksward/internal/report"
)

var _ = Describe("upgrade assessment", Ordered, func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		logger *zap.Logger
		client *eksplatform.Client
		store  *catalog.Store
		cfg    *config.Config
		outDir string
	)

	BeforeAll(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 15*time.Minute)

		var err error
		logger, err = zap.NewDevelopment()
		Expect(err).NotTo(HaveOccurred())

		outDir = GinkgoT().TempDir()

		cfg = &config.Config{}
		cfg.AWS.Region = region
		cfg.Upgrade.TargetVersion = targetVersion
		if clusterName != "" {
			cfg.Clusters.Names = []string{clusterName}
		}
		cfg.ApplyDefaults()
		cfg.Output.Dir = outDir
		Expect(cfg.Validate()).To(Succeed())

		client, err = eksplatform.NewClient(ctx, region, "")
		Expect(err).NotTo(HaveOccurred())

		store = catalog.NewStore(outDir, region, cfg.Cache.MaxAge, catalog.NewFetcher(client, logger), logger)
	})

	AfterAll(func() {
		cancel()
	})

	It("verifies the caller identity", func() {
		identity, err := client.VerifyIdentity(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(identity.Account).NotTo(BeEmpty())
		Expect(identity.ARN).NotTo(BeEmpty())
	})

	It("fetches the addon catalog from the region", func() {
		cat, err := store.LoadOrFetch(ctx, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(cat.Len()).To(BeNumerically(">", 0), "catalog should carry addon requirements")
		Expect(cat.Region()).To(Equal(region))
		Expect(cat.Addons()).To(ContainElement("vpc-cni"), "the default networking addon is always published")
		Expect(store.Path()).To(BeAnExistingFile())
	})

	It("serves a repeat load from the cache without refetching", func() {
		first, err := store.LoadOrFetch(ctx, false)
		Expect(err).NotTo(HaveOccurred())

		again, err := store.LoadOrFetch(ctx, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.FetchedAt()).To(Equal(first.FetchedAt()), "a fresh cache must not trigger a refetch")
	})

	It("assesses the clusters and writes reports", func() {
		runner := assess.NewRunner(assess.Options{
			Config:   cfg,
			Clusters: client,
			Catalog:  store,
			Logger:   logger,
		})

		result, err := runner.Run(ctx)
		if errors.Is(err, assess.ErrNoClusters) {
			Skip("no EKS clusters in region " + region)
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RunID).NotTo(BeEmpty())
		Expect(result.Clusters).NotTo(BeEmpty())
		Expect(result.Summary.TotalClusters).To(Equal(len(result.Clusters)))

		summaryPath := filepath.Join(result.OutputDir, "assessment-summary.json")
		Expect(summaryPath).To(BeAnExistingFile())

		data, err := os.ReadFile(summaryPath)
		Expect(err).NotTo(HaveOccurred())
		var summary report.RunSummary
		Expect(json.Unmarshal(data, &summary)).To(Succeed())
		Expect(summary.Region).To(Equal(region))
		Expect(summary.TargetVersion).To(Equal(targetVersion))
		Expect(summary.OverallReadiness).NotTo(BeEmpty())

		for _, c := range result.Clusters {
			if c.Error != "" {
				continue
			}
			Expect(c.Compat).NotTo(BeNil(), "assessed cluster %s should have an addon report", c.ClusterName)
			Expect(c.Compat.Summary.TotalAddons).To(BeNumerically(">=", 0))
		}
	})

	It("publishes artifacts to S3", func() {
		if bucket == "" {
			Skip("EKSWARD_E2E_BUCKET not set")
		}

		s3Client, err := s3platform.NewClient(ctx, region, "")
		Expect(err).NotTo(HaveOccurred())
		publisher := s3platform.NewPublisher(s3Client, bucket)
		Expect(publisher.Verify(ctx)).To(Succeed())

		runner := assess.NewRunner(assess.Options{
			Config:    cfg,
			Clusters:  client,
			Catalog:   store,
			Publisher: publisher,
			Logger:    logger,
		})

		result, err := runner.Run(ctx)
		if errors.Is(err, assess.ErrNoClusters) {
			Skip("no EKS clusters in region " + region)
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Artifacts).NotTo(BeEmpty())
	})
})
