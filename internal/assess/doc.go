// Package assess orchestrates an assessment run: credential preflight,
// cluster discovery, shared catalog loading, parallel per-cluster
// collection and analysis, and report writing.
//
// The runner owns sequencing and failure policy. Bad credentials, an
// unusable catalog, or report-write failures abort the run; a failing
// cluster records an errored result and never stops the batch. All AWS
// calls happen during collection, so the analysis core stays free of I/O.
package assess
