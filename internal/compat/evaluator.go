// Package compat classifies installed addon versions against the
// compatibility catalog and aggregates per-cluster upgrade readiness.
package compat

import (
	"encoding/json"
	"fmt"

	"github.com/eksward/eksward/internal/catalog"
	"github.com/eksward/eksward/internal/version"
)

// Status is the classified outcome for one addon. The zero value is
// StatusUnknown so that a missing classification can never masquerade as a
// clean result.
type Status int

const (
	// StatusUnknown means no verdict could be computed: either the catalog
	// has no data for the addon/target pair or the installed version string
	// did not parse. Surfaced distinctly so it is not mistaken for a pass.
	StatusUnknown Status = iota
	// StatusCompatible means the installed version lies inside the
	// validated range for the target platform version.
	StatusCompatible
	// StatusUpgradeRecommended means action is advised but the upgrade is
	// not blocked.
	StatusUpgradeRecommended
	// StatusUpgradeRequired means a critical addon is below the minimum
	// and blocks the platform upgrade.
	StatusUpgradeRequired
)

// statusNames is the externally documented vocabulary. Compatible,
// UpgradeRecommended, and UpgradeRequired map 1:1 onto pass, warning, and
// error; unknown is an explicit fourth value, never folded into the others.
var statusNames = map[Status]string{
	StatusUnknown:            "unknown",
	StatusCompatible:         "pass",
	StatusUpgradeRecommended: "warning",
	StatusUpgradeRequired:    "error",
}

var statusValues = map[string]Status{
	"unknown": StatusUnknown,
	"pass":    StatusCompatible,
	"warning": StatusUpgradeRecommended,
	"error":   StatusUpgradeRequired,
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalJSON writes the external vocabulary word.
func (s Status) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts only the documented vocabulary.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, ok := statusValues[raw]
	if !ok {
		return fmt.Errorf("invalid status %q", raw)
	}
	*s = v
	return nil
}

// Verdict is the classified result for a single addon. Min and Max carry
// the catalog bounds in canonical form and stay empty when the requirement
// was not found.
type Verdict struct {
	Status         Status
	MinVersion     string
	MaxVersion     string
	ActionRequired string
}

// Evaluate classifies one installed addon version against its catalog
// requirement. found reports whether the catalog had an entry for the
// addon/target pair; critical escalates the below-minimum case to a hard
// blocker. Pure function: no I/O, no logging, safe for any concurrency.
func Evaluate(installedRaw string, req catalog.Requirement, found, critical bool) Verdict {
	if !found {
		return Verdict{
			Status:         StatusUnknown,
			ActionRequired: "no compatibility data available for this addon/target version combination",
		}
	}

	installed, err := version.Parse(installedRaw)
	if err != nil {
		return Verdict{
			Status:         StatusUnknown,
			MinVersion:     req.Min.String(),
			MaxVersion:     req.Max.String(),
			ActionRequired: "unable to parse installed addon version; manual verification required.",
		}
	}

	v := Verdict{
		MinVersion: req.Min.String(),
		MaxVersion: req.Max.String(),
	}

	switch {
	case installed.LessThan(req.Min):
		if critical {
			v.Status = StatusUpgradeRequired
		} else {
			v.Status = StatusUpgradeRecommended
		}
		v.ActionRequired = fmt.Sprintf("upgrade %s from %s to at least %s before the platform upgrade.",
			req.AddonName, installedRaw, req.Min)
	case installed.GreaterThan(req.Max):
		// Exceeding the ceiling is typically a forward-compatible addon
		// against a conservative catalog bound, so it never blocks.
		v.Status = StatusUpgradeRecommended
		v.ActionRequired = fmt.Sprintf("installed version exceeds the validated range for the target platform version; downgrade to at most %s is recommended.",
			req.Max)
	default:
		v.Status = StatusCompatible
		v.ActionRequired = "no action required — addon is compatible."
	}

	return v
}
