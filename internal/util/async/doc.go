// Package async provides utilities for parallel task execution with
// error collection.
//
// The [RunParallel] function executes multiple operations concurrently
// with a bounded worker count and returns all errors. It drives the
// per-cluster collect-and-analyze pipeline, where cluster assessments are
// mutually independent.
package async
