package wizard

import "errors"

// Validation errors returned by wizard input validators.
var (
	errClusterNamesRequired = errors.New("at least one cluster name is required")
	errOutputDirRequired    = errors.New("output directory cannot be empty")
	errBucketNameInvalid    = errors.New("bucket name must be 3-63 lowercase letters, digits, dots, or hyphens")
	errFormatRequired       = errors.New("select at least one report format")
)
