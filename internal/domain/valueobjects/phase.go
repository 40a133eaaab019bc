package valueobjects

import "time"

// Phase is one step of the user-visible progress simulation. Phases are
// purely presentational: they advance on a timer and carry no information
// about the real generation call.
type Phase int

const (
	PhaseAnalyzing Phase = iota
	PhaseWarping
	PhaseCompositing
	PhaseRendering
)

func Phases() []Phase {
	return []Phase{PhaseAnalyzing, PhaseWarping, PhaseCompositing, PhaseRendering}
}

func (p Phase) String() string {
	switch p {
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseWarping:
		return "warping"
	case PhaseCompositing:
		return "compositing"
	case PhaseRendering:
		return "rendering"
	default:
		return "unknown"
	}
}

func (p Phase) Label() string {
	switch p {
	case PhaseAnalyzing:
		return "Analyzing"
	case PhaseWarping:
		return "Warping"
	case PhaseCompositing:
		return "Compositing"
	case PhaseRendering:
		return "Rendering"
	default:
		return "Unknown"
	}
}

func (p Phase) Detail() string {
	switch p {
	case PhaseAnalyzing:
		return "Reading body shape and garment geometry"
	case PhaseWarping:
		return "Fitting the garment to the pose"
	case PhaseCompositing:
		return "Blending fabric, shadows and lighting"
	case PhaseRendering:
		return "Rendering the final look"
	default:
		return ""
	}
}

// Dwell is how long the simulator holds the phase before advancing. Zero
// means the phase is held until the real call resolves.
func (p Phase) Dwell() time.Duration {
	switch p {
	case PhaseAnalyzing:
		return 2 * time.Second
	case PhaseWarping:
		return 2500 * time.Millisecond
	case PhaseCompositing:
		return 2 * time.Second
	default:
		return 0
	}
}
