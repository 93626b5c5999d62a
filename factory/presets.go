/*
presets.go - Built-in Buenos Aires expiration rule set

PURPOSE:
  The rule set the server loads when no configuration has been stored.
  Windows follow the municipal requirements for construction projects in
  the Ciudad de Buenos Aires jurisdiction. "Consulta DGIUR" is the only
  section whose window runs in business days; everything else counts
  calendar days.
*/
package factory

import "github.com/obratrack/compliance-engine/engine"

// DefaultRuleSetJSON returns the built-in rule set as JSON, suitable for
// seeding the rule_sets store.
func DefaultRuleSetJSON() string {
	return `{
  "rules": [
    {"section_id": "Alta Inicio de obra", "category": "permit", "default_window_days": 365},
    {"section_id": "Consulta DGIUR", "category": "report", "default_window_days": 30, "calculation_mode": "business_days"},
    {"section_id": "AVO 1", "category": "construction_phase", "default_window_days": 365,
     "conditional_window_days": {"Micro obra": 180, "Obra Media": 365, "Obra Mayor": 730}},
    {"section_id": "AVO 2", "category": "construction_phase", "default_window_days": 365},
    {"section_id": "AVO 3", "category": "construction_phase", "default_window_days": 365},
    {"section_id": "Póliza de seguro", "category": "fee", "default_window_days": 365},
    {"section_id": "Informe de dominio", "category": "report", "default_window_days": 90},
    {"section_id": "Informe de inhibición", "category": "report", "default_window_days": 90}
  ]
}`
}

// DefaultRegistry parses DefaultRuleSetJSON. The preset is known-good, so
// a parse failure is a programming error and yields an empty registry.
func DefaultRegistry() *engine.Registry {
	registry, err := NewRuleFactory().ParseRuleSet(DefaultRuleSetJSON())
	if err != nil {
		return engine.NewRegistry(nil)
	}
	return registry
}
