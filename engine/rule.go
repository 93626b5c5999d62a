/*
rule.go - Expiration rule registry

PURPOSE:
  Maps a document/section identifier to its expiration policy: how many
  days an uploaded document stays valid, whether that window depends on
  the project subtype, and whether the window is counted in calendar or
  business days.

LOOKUP SEMANTICS:
  - Exact, case-sensitive string match on the section identifier. A typo
    in a caller does not fail loudly; it falls back to the generic
    365-day window. This permissive fallback is inherited business
    policy - validate section names at the edge if you need strictness
    (KnownSections helps there).
  - Conditional windows keyed by project subtype always win over the
    rule's default window when the subtype matches.

SEE ALSO:
  - expiration.go: Resolves rules into absolute expiration dates
  - factory/rules.go: Builds a Registry from JSON configuration
*/
package engine

import "sort"

// DefaultFallbackWindowDays applies when a section has no registered rule.
const DefaultFallbackWindowDays = 365

// RuleCategory classifies what kind of requirement a section tracks.
type RuleCategory string

const (
	CategoryPermit            RuleCategory = "permit"
	CategoryConstructionPhase RuleCategory = "construction_phase"
	CategoryReport            RuleCategory = "report"
	CategoryFee               RuleCategory = "fee"
	CategoryOther             RuleCategory = "other"
)

// CalculationMode selects calendar-day vs business-day window arithmetic.
type CalculationMode string

const (
	CalendarDays CalculationMode = "calendar_days"
	BusinessDays CalculationMode = "business_days"
)

// ExpirationRule is the expiration policy for one document/section type.
type ExpirationRule struct {
	SectionID             string
	Category              RuleCategory
	DefaultWindowDays     int
	ConditionalWindowDays map[string]int // project subtype -> window override
	CalculationMode       CalculationMode
}

// WindowDaysFor resolves the window for a project subtype: conditional
// lookup wins over the default when a key matches.
func (r ExpirationRule) WindowDaysFor(projectSubtype string) int {
	if days, ok := r.ConditionalWindowDays[projectSubtype]; ok {
		return days
	}
	return r.DefaultWindowDays
}

// =============================================================================
// REGISTRY - Immutable section -> rule mapping, built once at startup
// =============================================================================

// Registry holds expiration rules keyed by section identifier.
type Registry struct {
	rules map[string]ExpirationRule
}

// NewRegistry builds a registry from a rule list. Later duplicates of the
// same section identifier replace earlier ones.
func NewRegistry(rules []ExpirationRule) *Registry {
	m := make(map[string]ExpirationRule, len(rules))
	for _, r := range rules {
		m[r.SectionID] = r
	}
	return &Registry{rules: m}
}

// Rule looks up the rule for a section. Exact, case-sensitive match.
func (reg *Registry) Rule(sectionID string) (ExpirationRule, bool) {
	r, ok := reg.rules[sectionID]
	return r, ok
}

// ResolveWindowDays returns the applicable window length for a
// (section, subtype) pair, falling back to DefaultFallbackWindowDays for
// unknown sections.
func (reg *Registry) ResolveWindowDays(sectionID, projectSubtype string) int {
	rule, ok := reg.rules[sectionID]
	if !ok {
		return DefaultFallbackWindowDays
	}
	return rule.WindowDaysFor(projectSubtype)
}

// Rules returns every registered rule, sorted by section identifier.
func (reg *Registry) Rules() []ExpirationRule {
	out := make([]ExpirationRule, 0, len(reg.rules))
	for _, r := range reg.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SectionID < out[j].SectionID })
	return out
}

// KnownSections returns the registered section identifiers, sorted.
// Useful for validating caller input at the edge.
func (reg *Registry) KnownSections() []string {
	out := make([]string, 0, len(reg.rules))
	for id := range reg.rules {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
