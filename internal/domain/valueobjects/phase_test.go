package valueobjects

import "testing"

func TestPhases_Order(t *testing.T) {
	phases := Phases()

	if len(phases) != 4 {
		t.Fatalf("Expected 4 phases, got %d", len(phases))
	}

	expected := []Phase{PhaseAnalyzing, PhaseWarping, PhaseCompositing, PhaseRendering}
	for i, phase := range phases {
		if phase != expected[i] {
			t.Errorf("Expected phase %v at position %d, got %v", expected[i], i, phase)
		}
	}
}

func TestPhase_Presentation(t *testing.T) {
	for _, phase := range Phases() {
		if phase.String() == "unknown" {
			t.Errorf("Phase %d has no name", phase)
		}
		if phase.Label() == "" || phase.Label() == "Unknown" {
			t.Errorf("Phase %v has no label", phase)
		}
		if phase.Detail() == "" {
			t.Errorf("Phase %v has no detail", phase)
		}
	}
}

func TestPhase_Dwell(t *testing.T) {
	for _, phase := range []Phase{PhaseAnalyzing, PhaseWarping, PhaseCompositing} {
		if phase.Dwell() <= 0 {
			t.Errorf("Expected positive dwell for %v, got %v", phase, phase.Dwell())
		}
	}

	// The final phase is held until the real call resolves.
	if PhaseRendering.Dwell() != 0 {
		t.Errorf("Expected zero dwell for rendering, got %v", PhaseRendering.Dwell())
	}
}
