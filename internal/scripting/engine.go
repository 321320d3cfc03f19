// Package scripting runs Lua terrain hooks through gopher-lua.
package scripting

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/noise"
	"github.com/hexworld/hexcore/internal/terrain"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ShapeHook is the global a script defines to edit cells during generation.
const ShapeHook = "shape_cell"

// ErrBadHookResult is returned when shape_cell returns something other than
// a table or nil.
var ErrBadHookResult = errors.New("scripting: shape_cell must return a table or nil")

// ErrNonFinite is returned when shape_cell sets a field to NaN or infinity.
var ErrNonFinite = errors.New("scripting: non-finite cell value")

// Engine wraps a single gopher-lua VM. Single-goroutine access only; the
// generator calls shapers sequentially.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: core/ first, then terrain/.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("hex_distance", vm.NewFunction(luaHexDistance))
	vm.SetGlobal("noise_hash", vm.NewFunction(luaNoiseHash))

	e := &Engine{vm: vm, log: log}
	for _, sub := range []string{"core", "terrain"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasShapeHook reports whether any loaded script defined shape_cell.
func (e *Engine) HasShapeHook() bool {
	return e.vm.GetGlobal(ShapeHook) != lua.LNil
}

func (e *Engine) Name() string { return "lua" }

// ShapeCell calls shape_cell with the cell's fields. A returned table
// overrides any field it sets; values are clamped to the field's range.
func (e *Engine) ShapeCell(c hex.GridCoord, cell *terrain.Cell) error {
	fn := e.vm.GetGlobal(ShapeHook)
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(c.X))
	t.RawSetString("y", lua.LNumber(c.Y))
	t.RawSetString("elevation", lua.LNumber(cell.Elevation))
	t.RawSetString("temperature", lua.LNumber(cell.Temperature))
	t.RawSetString("moisture", lua.LNumber(cell.Moisture))
	t.RawSetString("vegetation", lua.LNumber(cell.Vegetation))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return fmt.Errorf("lua %s at %d,%d: %w", ShapeHook, c.X, c.Y, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return fmt.Errorf("at %d,%d: %w", c.X, c.Y, ErrBadHookResult)
	}

	fields := []struct {
		key    string
		lo, hi int64
		set    func(int64)
	}{
		{"elevation", math.MinInt16, math.MaxInt16, func(v int64) { cell.Elevation = int16(v) }},
		{"temperature", 0, math.MaxUint8, func(v int64) { cell.Temperature = uint8(v) }},
		{"moisture", 0, math.MaxUint8, func(v int64) { cell.Moisture = uint8(v) }},
		{"vegetation", 0, math.MaxUint8, func(v int64) { cell.Vegetation = uint8(v) }},
	}
	// the cell is left untouched unless every returned field is usable
	var vals [4]int64
	var set [4]bool
	for i, f := range fields {
		n, ok := rt.RawGetString(f.key).(lua.LNumber)
		if !ok {
			continue
		}
		v, err := clampNumber(float64(n), f.lo, f.hi)
		if err != nil {
			return fmt.Errorf("at %d,%d field %s: %w", c.X, c.Y, f.key, err)
		}
		vals[i], set[i] = v, true
	}
	for i, f := range fields {
		if set[i] {
			f.set(vals[i])
		}
	}
	return nil
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// clampNumber truncates v toward zero and clamps it to [lo, hi]. NaN and
// infinities are rejected.
func clampNumber(v float64, lo, hi int64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	v = math.Trunc(v)
	if v < float64(lo) {
		return lo, nil
	}
	if v > float64(hi) {
		return hi, nil
	}
	return int64(v), nil
}

// hex_distance(x1, y1, x2, y2) returns the unwrapped hex step distance.
func luaHexDistance(L *lua.LState) int {
	a := hex.GridCoord{X: int32(L.CheckInt(1)), Y: int32(L.CheckInt(2))}
	b := hex.GridCoord{X: int32(L.CheckInt(3)), Y: int32(L.CheckInt(4))}
	L.Push(lua.LNumber(hex.Distance(a, b)))
	return 1
}

// noise_hash(seed, x, y) returns a deterministic value in [0, 1).
func luaNoiseHash(L *lua.LState) int {
	h := noise.Hash(uint32(L.CheckInt64(1)), int32(L.CheckInt(2)), int32(L.CheckInt(3)))
	L.Push(lua.LNumber(noise.Unit(h)))
	return 1
}
