// Package terrain generates and holds the per-cell surface fields of a
// plane: elevation, climate accumulators, visibility and waterways.
package terrain

import (
	"encoding/binary"
	"math"

	"github.com/hexworld/hexcore/internal/river"
)

// Cell is one terrain record. Elevation is in steps of roughly 100m; the
// climate fields saturate at 0 and 255.
type Cell struct {
	Elevation   int16
	Temperature uint8
	Moisture    uint8
	Vegetation  uint8
	Visibility  uint8
	Waterways   river.Waterways
}

// CellSize is the encoded width of a Cell.
const CellSize = 6 + river.PackedBytes

// CellCodec is the fixed byte layout used for digests and persistence:
// elevation (int16 LE), temperature, moisture, vegetation, visibility, then
// the five packed waterway bytes.
type CellCodec struct{}

func (CellCodec) Size() int { return CellSize }

func (CellCodec) Encode(dst []byte, c *Cell) {
	binary.LittleEndian.PutUint16(dst[0:], uint16(c.Elevation))
	dst[2] = c.Temperature
	dst[3] = c.Moisture
	dst[4] = c.Vegetation
	dst[5] = c.Visibility
	w := c.Waterways.Bytes()
	copy(dst[6:CellSize], w[:])
}

func (CellCodec) Decode(src []byte, c *Cell) {
	c.Elevation = int16(binary.LittleEndian.Uint16(src[0:]))
	c.Temperature = src[2]
	c.Moisture = src[3]
	c.Vegetation = src[4]
	c.Visibility = src[5]
	var w [river.PackedBytes]byte
	copy(w[:], src[6:CellSize])
	c.Waterways = river.FromBytes(w)
}

// AddTemperature adds d, saturating.
func (c *Cell) AddTemperature(d int) { c.Temperature = addSat8(c.Temperature, d) }

// AddMoisture adds d, saturating.
func (c *Cell) AddMoisture(d int) { c.Moisture = addSat8(c.Moisture, d) }

// AddVegetation adds d, saturating.
func (c *Cell) AddVegetation(d int) { c.Vegetation = addSat8(c.Vegetation, d) }

// AddElevation adds d, saturating at the int16 range.
func (c *Cell) AddElevation(d int) {
	c.Elevation = int16(clamp(int(c.Elevation)+d, math.MinInt16, math.MaxInt16))
}

func addSat8(v uint8, d int) uint8 {
	return uint8(clamp(int(v)+d, 0, math.MaxUint8))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
