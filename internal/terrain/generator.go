package terrain

import (
	"fmt"

	"github.com/hexworld/hexcore/internal/core/system"
	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/noise"
	"go.uber.org/zap"
)

// CellShaper edits cells after the built-in layers and before rivers.
type CellShaper interface {
	ShapeCell(c hex.GridCoord, cell *Cell) error
}

// ShaperFunc adapts a function to CellShaper.
type ShaperFunc func(c hex.GridCoord, cell *Cell) error

func (f ShaperFunc) ShapeCell(c hex.GridCoord, cell *Cell) error { return f(c, cell) }

// Stats summarizes a finished run.
type Stats struct {
	Cells       int
	Land        int
	Peak        int16
	Rivers      int
	Connections int
	RiverCells  int
}

// Generator runs the terrain passes over a map. Identical params and map
// dimensions always give an identical map.
type Generator struct {
	params  Params
	shapers []CellShaper
	log     *zap.Logger
}

func NewGenerator(p Params, log *zap.Logger, shapers ...CellShaper) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{params: p, shapers: shapers, log: log}
}

// Generate fills m with the default parameter set and the given seed.
func Generate(m *Map, seed uint64) (Stats, error) {
	p := DefaultParams()
	p.Seed = seed
	return NewGenerator(p, nil).Generate(m)
}

// genState is shared by the passes of one run.
type genState struct {
	m     *Map
	p     Params
	base  uint32
	stats Stats
}

func (g *Generator) Generate(m *Map) (Stats, error) {
	if err := g.params.Validate(); err != nil {
		return Stats{}, err
	}
	st := &genState{m: m, p: g.params, base: noise.FoldSeed(g.params.Seed)}
	if len(st.p.Gradients) == 0 {
		st.p.Gradients = DefaultGradients(m)
	}

	r := system.NewRunner()
	r.Register(&mountainPass{st})
	for _, l := range []struct {
		name  string
		layer Layer
		apply func(*Cell, float64, int)
	}{
		{"detail", st.p.Detail, applyDetail},
		{"nutrient", st.p.Nutrient, applyNutrient},
		{"rainfall", st.p.Rainfall, applyRainfall},
	} {
		src, err := noise.NewSource(l.layer.field(st.base))
		if err != nil {
			return Stats{}, fmt.Errorf("%s layer: %w", l.name, err)
		}
		r.Register(&layerPass{genState: st, name: l.name, src: src, amplitude: l.layer.Amplitude, apply: l.apply})
	}
	r.Register(&gradientPass{st})
	for i, s := range g.shapers {
		r.Register(&shapePass{genState: st, index: i, shaper: s})
	}
	r.Register(&riverPass{st})
	r.Register(&finishPass{st})

	r.OnComplete(func(s system.System) {
		g.log.Debug("terrain pass done", zap.Stringer("phase", s.Phase()), zap.String("pass", s.Name()))
	})
	if err := r.Run(); err != nil {
		return Stats{}, fmt.Errorf("generate terrain: %w", err)
	}

	g.log.Info("terrain generated",
		zap.Uint64("seed", g.params.Seed),
		zap.Int32("width", m.Width()),
		zap.Int32("height", m.Height()),
		zap.Int("land", st.stats.Land),
		zap.Int16("peak", st.stats.Peak),
		zap.Int("rivers", st.stats.Rivers),
	)
	return st.stats, nil
}
