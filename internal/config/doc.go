// Package config defines the assessment configuration model.
//
// The [Config] struct is the canonical representation of one assessment
// setup: the AWS account surface to scan, the upgrade target, which addons
// count as critical, and where reports go. It is produced by loading a
// YAML file or by the interactive init wizard.
package config
