package terrain

import (
	"github.com/hexworld/hexcore/internal/core/system"
	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/noise"
	"github.com/hexworld/hexcore/internal/river"
)

// stream salts keep each pass's random sequence independent of the others.
const (
	mountainSalt = 0x6d6f756e
	riverSalt    = 0x72697672
)

// mountainPass seeds ranges by wobble walk and stamps a peak at every step.
type mountainPass struct{ *genState }

func (p *mountainPass) Phase() system.Phase { return system.PhaseRelief }
func (p *mountainPass) Name() string        { return "mountains" }

func (p *mountainPass) Update() error {
	m := p.m
	rng := noise.NewStream(noise.Hash(p.base, mountainSalt, 0))
	for i := 0; i < p.p.MountainCount; i++ {
		cur := hex.GridCoord{
			X: int32(rng.Intn(int(m.Width()))),
			Y: int32(rng.Intn(int(m.Height()))),
		}
		dir := hex.Direction(rng.Intn(hex.DirectionCount))
		for step := 0; step < p.p.RangeLength; step++ {
			m.RaiseBrush(cur, p.p.MaxElevation, p.p.BrushRadius)
			if rng.Permille() < p.p.WobblePermille {
				if rng.Intn(2) == 0 {
					dir = dir.Rotate(-1)
				} else {
					dir = dir.Rotate(1)
				}
			}
			cur = m.Neighbor(cur, dir)
		}
	}
	return nil
}

// layerPass samples one noise field at every cell's world position.
type layerPass struct {
	*genState
	name      string
	src       noise.Source
	amplitude int
	apply     func(cell *Cell, sample float64, amplitude int)
}

func (p *layerPass) Phase() system.Phase { return system.PhaseLayers }
func (p *layerPass) Name() string        { return p.name }

func (p *layerPass) Update() error {
	if p.amplitude == 0 {
		return nil
	}
	p.m.Each(func(c hex.GridCoord, cell *Cell) {
		x, y := hex.CellToWorld(c)
		p.apply(cell, p.src.Sample(x, y), p.amplitude)
	})
	return nil
}

// applyDetail roughens elevation symmetrically around zero.
func applyDetail(cell *Cell, s float64, amp int) {
	cell.AddElevation(int((s*2 - 1) * float64(amp)))
}

func applyNutrient(cell *Cell, s float64, amp int) {
	cell.AddVegetation(int(s * float64(amp)))
}

func applyRainfall(cell *Cell, s float64, amp int) {
	cell.AddMoisture(int(s * float64(amp)))
}

// gradientPass adds the circular climate gradients, then cools high ground.
type gradientPass struct{ *genState }

func (p *gradientPass) Phase() system.Phase { return system.PhaseClimate }
func (p *gradientPass) Name() string        { return "gradients" }

func (p *gradientPass) Update() error {
	p.m.Each(func(c hex.GridCoord, cell *Cell) {
		for _, g := range p.p.Gradients {
			d := p.m.Distance(c, g.Anchor)
			if d >= g.Radius {
				continue
			}
			k := int(g.Radius - d)
			cell.AddTemperature(g.Temperature * k / int(g.Radius))
			cell.AddMoisture(g.Moisture * k / int(g.Radius))
		}
		if cell.Elevation > 0 {
			cell.AddTemperature(-int(cell.Elevation) * p.p.LapseRate)
		}
	})
	return nil
}

// shapePass hands every cell to an external shaper. The first error stops
// the pass.
type shapePass struct {
	*genState
	index  int
	shaper CellShaper
}

func (p *shapePass) Phase() system.Phase { return system.PhaseShape }

func (p *shapePass) Name() string {
	if n, ok := p.shaper.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "shaper"
}

func (p *shapePass) Update() error {
	var err error
	p.m.Each(func(c hex.GridCoord, cell *Cell) {
		if err == nil {
			err = p.shaper.ShapeCell(c, cell)
		}
	})
	return err
}

// riverPass traces rivers from random high cells down to the sea.
type riverPass struct{ *genState }

func (p *riverPass) Phase() system.Phase { return system.PhaseHydrology }
func (p *riverPass) Name() string        { return "rivers" }

func (p *riverPass) Update() error {
	if p.p.RiverCount == 0 || p.p.RiverMaxLength == 0 {
		return nil
	}
	var sources []hex.GridCoord
	p.m.Each(func(c hex.GridCoord, cell *Cell) {
		if cell.Elevation >= p.p.RiverMinElevation && cell.Elevation > 0 {
			sources = append(sources, c)
		}
	})
	if len(sources) == 0 {
		return nil
	}
	rng := noise.NewStream(noise.Hash(p.base, riverSalt, 0))
	for attempt := 0; p.stats.Rivers < p.p.RiverCount && attempt < p.p.RiverCount*8; attempt++ {
		src := sources[rng.Intn(len(sources))]
		if river.HasRiver(p.m, src) {
			continue
		}
		n, err := river.Trace(p.m, src, p.p.RiverSize, p.p.RiverMaxLength)
		if err != nil {
			return err
		}
		if n > 0 {
			p.stats.Rivers++
			p.stats.Connections += n
		}
	}
	return nil
}

// finishPass marks the whole plane for saving and collects statistics.
type finishPass struct{ *genState }

func (p *finishPass) Phase() system.Phase { return system.PhaseFinish }
func (p *finishPass) Name() string        { return "finish" }

func (p *finishPass) Update() error {
	p.m.MarkAllDirty()
	p.m.Each(func(_ hex.GridCoord, cell *Cell) {
		p.stats.Cells++
		if cell.Elevation > 0 {
			p.stats.Land++
		}
		p.stats.Peak = max(p.stats.Peak, cell.Elevation)
		if !cell.Waterways.Empty() {
			p.stats.RiverCells++
		}
	})
	return nil
}
