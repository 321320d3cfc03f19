package terrain

import (
	"errors"
	"fmt"

	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/noise"
)

// ErrInvalidParams is returned by Validate and Generate for unusable
// parameter sets.
var ErrInvalidParams = errors.New("terrain: invalid parameters")

// MaxGradients caps the number of circular gradients per plane.
const MaxGradients = 4

// Layer is one noise field blended into the cells.
type Layer struct {
	Backend    noise.Backend
	SeedOffset uint32
	Octaves    int
	Frequency  float64
	Amplitude  int
}

func (l Layer) field(base uint32) noise.Field {
	return noise.Field{
		Backend:   l.Backend,
		Seed:      noise.Hash(base, int32(l.SeedOffset), 0x6c617972),
		Octaves:   l.Octaves,
		Frequency: l.Frequency,
	}
}

// Gradient adds a linear falloff around Anchor: full strength at the anchor,
// zero at Radius hexes and beyond.
type Gradient struct {
	Anchor      hex.GridCoord
	Radius      int32
	Temperature int
	Moisture    int
}

// Params controls a generation run.
type Params struct {
	Seed uint64

	MountainCount  int
	RangeLength    int
	MaxElevation   int16
	BrushRadius    int32
	WobblePermille int // chance per step that a range turns

	Detail   Layer // elevation
	Nutrient Layer // vegetation
	Rainfall Layer // moisture

	Gradients []Gradient // empty means DefaultGradients for the map
	LapseRate int        // temperature lost per elevation step above sea level

	RiverCount        int
	RiverMinElevation int16
	RiverSize         uint8
	RiverMaxLength    int
}

func DefaultParams() Params {
	return Params{
		MountainCount:  4,
		RangeLength:    128,
		MaxElevation:   64,
		BrushRadius:    4,
		WobblePermille: 150,
		Detail:         Layer{Backend: noise.BackendHex, SeedOffset: 1, Octaves: 4, Frequency: 1.0 / 16, Amplitude: 8},
		Nutrient:       Layer{Backend: noise.BackendHex, SeedOffset: 2, Octaves: 3, Frequency: 1.0 / 24, Amplitude: 96},
		Rainfall:       Layer{Backend: noise.BackendValue, SeedOffset: 3, Octaves: 2, Frequency: 1.0 / 32, Amplitude: 128},
		LapseRate:      1,

		RiverCount:        6,
		RiverMinElevation: 24,
		RiverSize:         2,
		RiverMaxLength:    256,
	}
}

// DefaultGradients places a warm band on the middle row and a cold pole at
// the wrap seam.
func DefaultGradients(m *Map) []Gradient {
	half := m.Height() / 2
	return []Gradient{
		{Anchor: hex.GridCoord{X: m.Width() / 2, Y: half}, Radius: half, Temperature: 160, Moisture: 32},
		{Anchor: hex.GridCoord{}, Radius: half / 2, Temperature: -96},
	}
}

func (p Params) Validate() error {
	switch {
	case p.MountainCount < 0 || p.RangeLength < 0:
		return fmt.Errorf("%w: negative mountain count or range length", ErrInvalidParams)
	case p.BrushRadius < 1:
		return fmt.Errorf("%w: brush radius %d", ErrInvalidParams, p.BrushRadius)
	case p.WobblePermille < 0 || p.WobblePermille > 200:
		return fmt.Errorf("%w: wobble %d permille outside 0..200", ErrInvalidParams, p.WobblePermille)
	case len(p.Gradients) > MaxGradients:
		return fmt.Errorf("%w: %d gradients, max %d", ErrInvalidParams, len(p.Gradients), MaxGradients)
	case p.RiverCount < 0 || p.RiverMaxLength < 0:
		return fmt.Errorf("%w: negative river count or length", ErrInvalidParams)
	}
	for _, g := range p.Gradients {
		if g.Radius < 1 {
			return fmt.Errorf("%w: gradient radius %d", ErrInvalidParams, g.Radius)
		}
	}
	for _, l := range []Layer{p.Detail, p.Nutrient, p.Rainfall} {
		if l.Octaves < 0 || l.Octaves > noise.MaxOctaves {
			return fmt.Errorf("%w: %d octaves", ErrInvalidParams, l.Octaves)
		}
	}
	return nil
}
