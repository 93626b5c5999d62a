/*
Package factory provides JSON to Go expiration-rule conversion.

PURPOSE:
  Converts JSON rule-set definitions into an engine.Registry. This
  enables rule configuration without code changes - an administrator can
  adjust a section's validity window in JSON, and the factory builds the
  immutable registry the engine reads.

JSON SCHEMA:
  {
    "rules": [
      {
        "section_id": "Consulta DGIUR",
        "category": "report",
        "default_window_days": 30,
        "calculation_mode": "business_days"
      },
      {
        "section_id": "AVO 1",
        "category": "construction_phase",
        "default_window_days": 365,
        "conditional_window_days": {"Micro obra": 180, "Obra Mayor": 730}
      }
    ]
  }

DEFAULTS:
  - calculation_mode defaults to calendar_days
  - category defaults to other

SEE ALSO:
  - engine/rule.go: Registry and rule types
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/obratrack/compliance-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleSetJSON is the JSON representation of a complete rule set.
type RuleSetJSON struct {
	Rules []RuleJSON `json:"rules"`
}

// RuleJSON is the JSON representation of one expiration rule.
type RuleJSON struct {
	SectionID             string         `json:"section_id"`
	Category              string         `json:"category,omitempty"`
	DefaultWindowDays     int            `json:"default_window_days"`
	ConditionalWindowDays map[string]int `json:"conditional_window_days,omitempty"`
	CalculationMode       string         `json:"calculation_mode,omitempty"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts JSON rule sets to engine registries.
type RuleFactory struct{}

// NewRuleFactory creates a new rule factory.
func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParseRuleSet parses a JSON string into a Registry.
func (f *RuleFactory) ParseRuleSet(jsonStr string) (*engine.Registry, error) {
	var rs RuleSetJSON
	if err := json.Unmarshal([]byte(jsonStr), &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set JSON: %w", err)
	}
	return f.FromJSON(rs)
}

// FromJSON converts RuleSetJSON to a Registry.
func (f *RuleFactory) FromJSON(rs RuleSetJSON) (*engine.Registry, error) {
	rules := make([]engine.ExpirationRule, 0, len(rs.Rules))
	for _, rj := range rs.Rules {
		if rj.SectionID == "" {
			return nil, fmt.Errorf("rule missing section_id")
		}
		if rj.DefaultWindowDays < 0 {
			return nil, fmt.Errorf("rule %q: negative default_window_days", rj.SectionID)
		}
		rules = append(rules, engine.ExpirationRule{
			SectionID:             rj.SectionID,
			Category:              parseCategory(rj.Category),
			DefaultWindowDays:     rj.DefaultWindowDays,
			ConditionalWindowDays: rj.ConditionalWindowDays,
			CalculationMode:       parseCalculationMode(rj.CalculationMode),
		})
	}
	return engine.NewRegistry(rules), nil
}

// ToJSON converts a Registry back to its JSON representation, rules
// sorted by section identifier.
func (f *RuleFactory) ToJSON(registry *engine.Registry) RuleSetJSON {
	var rs RuleSetJSON
	for _, r := range registry.Rules() {
		rs.Rules = append(rs.Rules, RuleJSON{
			SectionID:             r.SectionID,
			Category:              string(r.Category),
			DefaultWindowDays:     r.DefaultWindowDays,
			ConditionalWindowDays: r.ConditionalWindowDays,
			CalculationMode:       string(r.CalculationMode),
		})
	}
	return rs
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseCategory(s string) engine.RuleCategory {
	switch s {
	case "permit":
		return engine.CategoryPermit
	case "construction_phase":
		return engine.CategoryConstructionPhase
	case "report":
		return engine.CategoryReport
	case "fee":
		return engine.CategoryFee
	default:
		return engine.CategoryOther
	}
}

func parseCalculationMode(s string) engine.CalculationMode {
	if s == "business_days" {
		return engine.BusinessDays
	}
	return engine.CalendarDays
}
