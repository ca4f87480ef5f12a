// Package s3 publishes assessment artifacts to Amazon S3.
//
// Reports are uploaded under a per-run key prefix mirroring the local
// output directory layout; the shared addon version catalog is mirrored
// under a stable shared-data key.
package s3
