// Package catalog builds and serves the addon version compatibility
// catalog: for every (addon, target platform version) pair, the minimum,
// maximum, and default addon versions the provider reports as compatible.
//
// A catalog is built once from provider entries and never mutated
// afterwards, so any number of concurrent analyses may read it without
// synchronization. Refreshing produces a new catalog value.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/eksward/eksward/internal/version"
)

// ErrCatalogUnavailable indicates a catalog with no usable entries. It is
// fatal: every verdict computed against such a catalog would be spuriously
// unknown, so callers must abort before analyzing any cluster.
var ErrCatalogUnavailable = errors.New("addon version catalog unavailable")

// Entry is one provider-reported compatibility record, as fetched from the
// EKS API or loaded from the shared-data cache. Version fields are raw
// strings; they are parsed exactly once during Build.
type Entry struct {
	AddonName       string `json:"addon_name"`
	PlatformVersion string `json:"target_platform_version"`
	MinVersion      string `json:"min_version"`
	MaxVersion      string `json:"max_version"`
	DefaultVersion  string `json:"default_version,omitempty"`
	AddonType       string `json:"addon_type,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	Owner           string `json:"owner,omitempty"`
}

// Requirement is a validated catalog entry with parsed version tokens.
// Default is nil when the provider reported no default version.
type Requirement struct {
	AddonName       string
	PlatformVersion string
	Min             version.Token
	Max             version.Token
	Default         *version.Token
	AddonType       string
}

// Inconsistency records a catalog entry that was dropped or overwritten
// during Build. Inconsistencies are non-fatal; the rest of the catalog
// stays usable.
type Inconsistency struct {
	AddonName       string `json:"addon_name"`
	PlatformVersion string `json:"target_platform_version"`
	Reason          string `json:"reason"`
}

type key struct {
	addon    string
	platform string
}

// Catalog is the immutable compatibility snapshot. Zero synchronization is
// needed for reads; Build is the only writer and returns before the catalog
// is shared.
type Catalog struct {
	requirements    map[key]Requirement
	entries         []Entry
	inconsistencies []Inconsistency
	fetchedAt       time.Time
	region          string
}

// Build validates provider entries into a catalog. Malformed entries are
// dropped and recorded as inconsistencies; duplicate (addon, platform
// version) keys keep the last entry and record an ambiguity. Build fails
// only when no usable entry remains.
func Build(entries []Entry, fetchedAt time.Time, region string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Catalog{
		requirements: make(map[key]Requirement, len(entries)),
		fetchedAt:    fetchedAt,
		region:       region,
	}
	kept := make(map[key]Entry, len(entries))

	for _, e := range entries {
		req, reason := validate(e)
		if reason != "" {
			c.inconsistencies = append(c.inconsistencies, Inconsistency{
				AddonName:       e.AddonName,
				PlatformVersion: e.PlatformVersion,
				Reason:          reason,
			})
			logger.Warn("dropping catalog entry",
				zap.String("addon", e.AddonName),
				zap.String("platform_version", e.PlatformVersion),
				zap.String("reason", reason))
			continue
		}

		k := key{addon: e.AddonName, platform: e.PlatformVersion}
		if _, dup := c.requirements[k]; dup {
			c.inconsistencies = append(c.inconsistencies, Inconsistency{
				AddonName:       e.AddonName,
				PlatformVersion: e.PlatformVersion,
				Reason:          "duplicate entry; keeping the later one",
			})
			logger.Warn("ambiguous catalog entry, last write wins",
				zap.String("addon", e.AddonName),
				zap.String("platform_version", e.PlatformVersion))
		}
		c.requirements[k] = req
		kept[k] = e
	}

	if len(c.requirements) == 0 {
		return nil, fmt.Errorf("%w: no usable entries (%d dropped)", ErrCatalogUnavailable, len(c.inconsistencies))
	}

	c.entries = make([]Entry, 0, len(kept))
	for _, e := range kept {
		c.entries = append(c.entries, e)
	}
	sort.Slice(c.entries, func(i, j int) bool {
		if c.entries[i].PlatformVersion != c.entries[j].PlatformVersion {
			return c.entries[i].PlatformVersion < c.entries[j].PlatformVersion
		}
		return c.entries[i].AddonName < c.entries[j].AddonName
	})

	return c, nil
}

// validate parses one entry. It returns the parsed requirement, or a
// non-empty reason when the entry must be dropped.
func validate(e Entry) (Requirement, string) {
	if e.AddonName == "" {
		return Requirement{}, "missing addon name"
	}
	if e.PlatformVersion == "" {
		return Requirement{}, "missing target platform version"
	}

	minTok, err := version.Parse(e.MinVersion)
	if err != nil {
		return Requirement{}, fmt.Sprintf("unparsable min_version %q", e.MinVersion)
	}
	maxTok, err := version.Parse(e.MaxVersion)
	if err != nil {
		return Requirement{}, fmt.Sprintf("unparsable max_version %q", e.MaxVersion)
	}
	if minTok.GreaterThan(maxTok) {
		return Requirement{}, fmt.Sprintf("min_version %s exceeds max_version %s", minTok, maxTok)
	}

	req := Requirement{
		AddonName:       e.AddonName,
		PlatformVersion: e.PlatformVersion,
		Min:             minTok,
		Max:             maxTok,
		AddonType:       e.AddonType,
	}

	if e.DefaultVersion != "" {
		defTok, err := version.Parse(e.DefaultVersion)
		if err != nil {
			return Requirement{}, fmt.Sprintf("unparsable default_version %q", e.DefaultVersion)
		}
		if !defTok.InRange(minTok, maxTok) {
			return Requirement{}, fmt.Sprintf("default_version %s outside [%s, %s]", defTok, minTok, maxTok)
		}
		req.Default = &defTok
	}

	return req, ""
}

// RequirementFor looks up the requirement for an addon on a target platform
// version. A miss is a legitimate outcome (addon retired, or not offered
// for that platform version); callers surface it as an unknown verdict.
func (c *Catalog) RequirementFor(addonName, platformVersion string) (Requirement, bool) {
	req, ok := c.requirements[key{addon: addonName, platform: platformVersion}]
	return req, ok
}

// Entries returns the usable entries in deterministic order, suitable for
// persisting to the shared-data cache.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Inconsistencies returns the entries dropped or overwritten during Build.
func (c *Catalog) Inconsistencies() []Inconsistency {
	out := make([]Inconsistency, len(c.inconsistencies))
	copy(out, c.inconsistencies)
	return out
}

// Len returns the number of usable (addon, platform version) requirements.
func (c *Catalog) Len() int { return len(c.requirements) }

// FetchedAt returns when the catalog data was fetched from the provider.
func (c *Catalog) FetchedAt() time.Time { return c.fetchedAt }

// Region returns the region the catalog was fetched from.
func (c *Catalog) Region() string { return c.region }

// PlatformVersions returns the distinct target platform versions covered by
// the catalog, sorted ascending by minor version.
func (c *Catalog) PlatformVersions() []string {
	seen := map[string]bool{}
	var out []string
	for k := range c.requirements {
		if !seen[k.platform] {
			seen[k.platform] = true
			out = append(out, k.platform)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := version.ParsePlatform(out[i])
		b, errB := version.ParsePlatform(out[j])
		if errA != nil || errB != nil {
			return out[i] < out[j]
		}
		return a.LessThan(b)
	})
	return out
}

// Addons returns the distinct addon names in the catalog, sorted.
func (c *Catalog) Addons() []string {
	seen := map[string]bool{}
	var out []string
	for k := range c.requirements {
		if !seen[k.addon] {
			seen[k.addon] = true
			out = append(out, k.addon)
		}
	}
	sort.Strings(out)
	return out
}
