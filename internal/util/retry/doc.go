// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts,
// initial delay, and maximum delay. It is used for AWS API calls that can
// be throttled, DescribeAddonVersions pagination in particular.
package retry
