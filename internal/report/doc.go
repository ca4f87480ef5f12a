// Package report renders assessment results to the output tree.
//
// Each assessed cluster gets an addon-compatibility report in every
// configured format (JSON, Markdown, YAML) under its own directory, and the
// run gets one combined assessment-summary.json across clusters. Per-cluster
// artifacts are pure functions of the report model, so re-running an
// unchanged assessment produces byte-identical files.
package report
