package system

// Phase defines execution ordering within one generation run.
type Phase int

const (
	PhaseRelief    Phase = iota // 0: mountain ranges
	PhaseLayers                 // 1: noise fields
	PhaseClimate                // 2: gradients
	PhaseShape                  // 3: scripted shapers
	PhaseHydrology              // 4: rivers
	PhaseFinish                 // 5: dirty marking, stats
)

func (p Phase) String() string {
	switch p {
	case PhaseRelief:
		return "relief"
	case PhaseLayers:
		return "layers"
	case PhaseClimate:
		return "climate"
	case PhaseShape:
		return "shape"
	case PhaseHydrology:
		return "hydrology"
	case PhaseFinish:
		return "finish"
	}
	return "unknown"
}

// System is one pass over a map. Passes in the same phase run in
// registration order.
type System interface {
	Phase() Phase
	Name() string
	Update() error
}
