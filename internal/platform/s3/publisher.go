package s3

import (
	"context"
	"fmt"
	"path"
)

const (
	keyPrefix  = "eksward"
	catalogKey = keyPrefix + "/shared-data/eks-addon-versions.json"
)

// Publisher uploads assessment artifacts to a bucket. Report keys are
// prefixed with the run identifier so successive runs never overwrite each
// other; the catalog key is stable and shared across runs.
type Publisher struct {
	client *Client
	bucket string
}

// NewPublisher creates a publisher targeting one bucket.
func NewPublisher(client *Client, bucket string) *Publisher {
	return &Publisher{client: client, bucket: bucket}
}

// Bucket returns the target bucket name.
func (p *Publisher) Bucket() string { return p.bucket }

// Verify checks the target bucket exists before any report is written, so a
// misconfigured bucket fails the run up front instead of after assessment.
func (p *Publisher) Verify(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("s3 bucket %s does not exist or is not accessible", p.bucket)
	}
	return nil
}

// PublishArtifact uploads one report file under the run prefix. clusterName
// may be empty for run-level artifacts such as the combined summary.
func (p *Publisher) PublishArtifact(ctx context.Context, runID, clusterName, fileName string, data []byte) error {
	return p.client.PutObject(ctx, p.bucket, path.Join(keyPrefix, runID, clusterName, fileName), data)
}

// MirrorCatalog uploads the shared addon version catalog. It satisfies the
// catalog store's Mirror interface.
func (p *Publisher) MirrorCatalog(ctx context.Context, data []byte) error {
	return p.client.PutObject(ctx, p.bucket, catalogKey, data)
}
