package scripting

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/terrain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, sub, name, src string) {
	t.Helper()
	p := filepath.Join(dir, sub)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, name), []byte(src), 0o644))
}

func TestEngineWithoutScripts(t *testing.T) {
	e, err := NewEngine(t.TempDir(), nil)
	require.NoError(t, err)
	defer e.Close()

	assert.False(t, e.HasShapeHook())
	cell := terrain.Cell{Elevation: 4, Moisture: 9}
	require.NoError(t, e.ShapeCell(hex.GridCoord{}, &cell))
	assert.Equal(t, terrain.Cell{Elevation: 4, Moisture: 9}, cell)
}

func TestShapeCellAppliesAndClamps(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "util.lua", `
function flooded(cell) return cell.elevation < 3 end
`)
	writeScript(t, dir, "terrain", "shape.lua", `
function shape_cell(cell)
  if flooded(cell) then
    return { elevation = -1, moisture = cell.moisture + 500 }
  end
  if cell.x == 7 then
    return { vegetation = hex_distance(0, 0, cell.x, cell.y) }
  end
  return nil
end
`)
	e, err := NewEngine(dir, nil)
	require.NoError(t, err)
	defer e.Close()
	require.True(t, e.HasShapeHook())
	assert.Equal(t, "lua", e.Name())

	low := terrain.Cell{Elevation: 2, Moisture: 10, Temperature: 50}
	require.NoError(t, e.ShapeCell(hex.GridCoord{X: 1, Y: 1}, &low))
	assert.Equal(t, int16(-1), low.Elevation)
	assert.Equal(t, uint8(255), low.Moisture)
	assert.Equal(t, uint8(50), low.Temperature)

	high := terrain.Cell{Elevation: 10}
	require.NoError(t, e.ShapeCell(hex.GridCoord{X: 7, Y: 0}, &high))
	assert.Equal(t, uint8(7), high.Vegetation)
	assert.Equal(t, int16(10), high.Elevation)
}

func TestShapeCellErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "terrain", "bad.lua", `
function shape_cell(cell)
  if cell.x == 0 then error("boom") end
  return 5
end
`)
	e, err := NewEngine(dir, nil)
	require.NoError(t, err)
	defer e.Close()

	var cell terrain.Cell
	assert.Error(t, e.ShapeCell(hex.GridCoord{X: 0}, &cell))
	assert.ErrorIs(t, e.ShapeCell(hex.GridCoord{X: 1}, &cell), ErrBadHookResult)
}

func TestNewEngineReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "terrain", "broken.lua", "function shape_cell(")
	_, err := NewEngine(dir, nil)
	assert.Error(t, err)
}

func TestEngineDrivesGenerator(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "terrain", "flat.lua", `
function shape_cell(cell) return { elevation = 0, vegetation = noise_hash(1, cell.x, cell.y) * 100 } end
`)
	e, err := NewEngine(dir, nil)
	require.NoError(t, err)
	defer e.Close()

	m := terrain.NewMap(8, 2, 2)
	stats, err := terrain.NewGenerator(terrain.DefaultParams(), nil, e).Generate(m)
	require.NoError(t, err)
	assert.Zero(t, stats.Land)
	assert.Zero(t, stats.Rivers)
	m.Each(func(_ hex.GridCoord, c *terrain.Cell) {
		assert.Less(t, c.Vegetation, uint8(100))
	})
}

func TestShapeCellRejectsNonFinite(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "terrain", "nan.lua", `
function shape_cell(cell)
  if cell.x == 0 then return { moisture = 9, elevation = 0/0 } end
  if cell.x == 1 then return { temperature = 1/0 } end
  return { vegetation = 3, elevation = -1e12 }
end
`)
	e, err := NewEngine(dir, nil)
	require.NoError(t, err)
	defer e.Close()

	cell := terrain.Cell{Elevation: 5, Moisture: 1}
	assert.ErrorIs(t, e.ShapeCell(hex.GridCoord{X: 0}, &cell), ErrNonFinite)
	assert.Equal(t, terrain.Cell{Elevation: 5, Moisture: 1}, cell)

	cell.Temperature = 40
	assert.ErrorIs(t, e.ShapeCell(hex.GridCoord{X: 1}, &cell), ErrNonFinite)
	assert.Equal(t, uint8(40), cell.Temperature)

	require.NoError(t, e.ShapeCell(hex.GridCoord{X: 2}, &cell))
	assert.Equal(t, uint8(3), cell.Vegetation)
	assert.Equal(t, int16(-32768), cell.Elevation)
}

func TestClampNumber(t *testing.T) {
	v, err := clampNumber(12.9, 0, 255)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)
	v, err = clampNumber(-0.5, 0, 255)
	require.NoError(t, err)
	assert.Zero(t, v)
	v, err = clampNumber(1e300, -32768, 32767)
	require.NoError(t, err)
	assert.Equal(t, int64(32767), v)
	_, err = clampNumber(math.NaN(), 0, 255)
	assert.ErrorIs(t, err, ErrNonFinite)
	_, err = clampNumber(math.Inf(-1), 0, 255)
	assert.ErrorIs(t, err, ErrNonFinite)
}
