package engine_test

import (
	"testing"

	"github.com/obratrack/compliance-engine/engine"
)

func testRegistry() *engine.Registry {
	return engine.NewRegistry([]engine.ExpirationRule{
		{
			SectionID:         "Alta Inicio de obra",
			Category:          engine.CategoryPermit,
			DefaultWindowDays: 365,
			CalculationMode:   engine.CalendarDays,
		},
		{
			SectionID:         "Consulta DGIUR",
			Category:          engine.CategoryPermit,
			DefaultWindowDays: 30,
			CalculationMode:   engine.BusinessDays,
		},
		{
			SectionID:         "AVO 1",
			Category:          engine.CategoryConstructionPhase,
			DefaultWindowDays: 365,
			ConditionalWindowDays: map[string]int{
				"Micro obra": 180,
				"Obra Media": 365,
				"Obra Mayor": 730,
			},
			CalculationMode: engine.CalendarDays,
		},
	})
}

func TestRegistry_Rule(t *testing.T) {
	reg := testRegistry()

	rule, ok := reg.Rule("Consulta DGIUR")
	if !ok {
		t.Fatal("expected rule for Consulta DGIUR")
	}
	if rule.CalculationMode != engine.BusinessDays {
		t.Errorf("expected business_days mode, got %s", rule.CalculationMode)
	}

	// Lookup is case sensitive, no normalization
	if _, ok := reg.Rule("consulta dgiur"); ok {
		t.Error("expected lowercased section to miss")
	}
}

func TestRegistry_ResolveWindowDays_ConditionalOverride(t *testing.T) {
	// GIVEN: AVO 1 has per-subtype window overrides
	// THEN: Matching subtypes override the default, unknown subtypes fall back

	reg := testRegistry()

	cases := []struct {
		subtype string
		want    int
	}{
		{"Micro obra", 180},
		{"Obra Media", 365},
		{"Obra Mayor", 730},
		{"", 365},
		{"Obra Inexistente", 365},
	}

	for _, tc := range cases {
		if got := reg.ResolveWindowDays("AVO 1", tc.subtype); got != tc.want {
			t.Errorf("subtype %q: expected %d, got %d", tc.subtype, tc.want, got)
		}
	}
}

func TestRegistry_ResolveWindowDays_UnknownSectionFallsBack(t *testing.T) {
	reg := testRegistry()

	if got := reg.ResolveWindowDays("Sección desconocida", ""); got != engine.DefaultFallbackWindowDays {
		t.Errorf("expected fallback %d, got %d", engine.DefaultFallbackWindowDays, got)
	}
}

func TestRegistry_KnownSections_Sorted(t *testing.T) {
	reg := testRegistry()

	sections := reg.KnownSections()
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	for i := 1; i < len(sections); i++ {
		if sections[i-1] >= sections[i] {
			t.Errorf("sections not sorted: %q before %q", sections[i-1], sections[i])
		}
	}
}
