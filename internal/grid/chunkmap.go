// Package grid stores cell records for a toroidal hex map in fixed-size
// square chunks. Every coordinate, however far out of range, wraps onto the
// map, so there is no out-of-bounds access through this API.
package grid

import (
	"fmt"
	"math"

	"github.com/hexworld/hexcore/internal/hex"
	"github.com/zyedidia/generic/mapset"
)

// Chunk is one chunkSize×chunkSize block of cells, row-major by local Y.
type Chunk[T any] struct {
	Index int32
	Cells []T
}

// ChunkMap is a wrapping grid of chunks holding cell records of type T.
// Accessed from a single goroutine; callers serialize mutation.
type ChunkMap[T any] struct {
	chunkSize int32
	chunksX   int32
	chunksY   int32
	width     int32
	height    int32
	chunks    []Chunk[T]
	dirty     mapset.Set[int32]
}

// New allocates chunksX*chunksY zeroed chunks. Zero dimensions are a
// programming error and panic.
func New[T any](chunkSize, chunksX, chunksY int32) *ChunkMap[T] {
	if chunkSize <= 0 || chunksX <= 0 || chunksY <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions chunkSize=%d chunksX=%d chunksY=%d", chunkSize, chunksX, chunksY))
	}
	if int64(chunkSize)*int64(chunksX) > math.MaxInt32/2 || int64(chunkSize)*int64(chunksY) > math.MaxInt32/2 {
		panic(fmt.Sprintf("grid: map too large %dx%d chunks of %d", chunksX, chunksY, chunkSize))
	}
	m := &ChunkMap[T]{
		chunkSize: chunkSize,
		chunksX:   chunksX,
		chunksY:   chunksY,
		width:     chunkSize * chunksX,
		height:    chunkSize * chunksY,
		chunks:    make([]Chunk[T], int(chunksX)*int(chunksY)),
		dirty:     mapset.New[int32](),
	}
	for i := range m.chunks {
		m.chunks[i] = Chunk[T]{
			Index: int32(i),
			Cells: make([]T, int(chunkSize)*int(chunkSize)),
		}
	}
	return m
}

func (m *ChunkMap[T]) ChunkSize() int32   { return m.chunkSize }
func (m *ChunkMap[T]) ChunksX() int32     { return m.chunksX }
func (m *ChunkMap[T]) ChunksY() int32     { return m.chunksY }
func (m *ChunkMap[T]) Width() int32       { return m.width }
func (m *ChunkMap[T]) Height() int32      { return m.height }
func (m *ChunkMap[T]) ChunkCount() int    { return len(m.chunks) }
func (m *ChunkMap[T]) CellsPerChunk() int { return int(m.chunkSize) * int(m.chunkSize) }

// Wrap folds c into [0,width)×[0,height) using floored modulo.
func (m *ChunkMap[T]) Wrap(c hex.GridCoord) hex.GridCoord {
	return hex.GridCoord{X: hex.FloorMod(c.X, m.width), Y: hex.FloorMod(c.Y, m.height)}
}

// Resolve maps any coordinate to its chunk index and the cell index inside
// that chunk.
func (m *ChunkMap[T]) Resolve(c hex.GridCoord) (chunk, cell int32) {
	w := m.Wrap(c)
	cx, cy := w.X/m.chunkSize, w.Y/m.chunkSize
	lx, ly := w.X%m.chunkSize, w.Y%m.chunkSize
	return cy*m.chunksX + cx, ly*m.chunkSize + lx
}

// ChunkIndexOf returns the chunk holding c.
func (m *ChunkMap[T]) ChunkIndexOf(c hex.GridCoord) int32 {
	chunk, _ := m.Resolve(c)
	return chunk
}

// ChunkIndexAtOffset moves delta chunks from the chunk holding start,
// wrapping on both axes.
func (m *ChunkMap[T]) ChunkIndexAtOffset(start hex.GridCoord, delta hex.GridCoord) int32 {
	w := m.Wrap(start)
	cx := hex.FloorMod(w.X/m.chunkSize+delta.X, m.chunksX)
	cy := hex.FloorMod(w.Y/m.chunkSize+delta.Y, m.chunksY)
	return cy*m.chunksX + cx
}

// ChunkOrigin returns the absolute coordinate of a chunk's first cell.
func (m *ChunkMap[T]) ChunkOrigin(chunk int32) hex.GridCoord {
	chunk = hex.FloorMod(chunk, int32(len(m.chunks)))
	return hex.GridCoord{
		X: (chunk % m.chunksX) * m.chunkSize,
		Y: (chunk / m.chunksX) * m.chunkSize,
	}
}

// CoordOf is the inverse of Resolve for in-range indices.
func (m *ChunkMap[T]) CoordOf(chunk, cell int32) hex.GridCoord {
	o := m.ChunkOrigin(chunk)
	cell = hex.FloorMod(cell, int32(m.CellsPerChunk()))
	return hex.GridCoord{X: o.X + cell%m.chunkSize, Y: o.Y + cell/m.chunkSize}
}

// Cell returns the record at c after wrapping.
func (m *ChunkMap[T]) Cell(c hex.GridCoord) *T {
	chunk, cell := m.Resolve(c)
	return &m.chunks[chunk].Cells[cell]
}

// CellAt returns a record by resolved indices.
func (m *ChunkMap[T]) CellAt(chunk, cell int32) *T {
	return &m.chunks[chunk].Cells[cell]
}

// Chunk returns the chunk with the given index.
func (m *ChunkMap[T]) Chunk(index int32) *Chunk[T] {
	return &m.chunks[hex.FloorMod(index, int32(len(m.chunks)))]
}

// Neighbor returns the wrapped coordinate one step from c.
func (m *ChunkMap[T]) Neighbor(c hex.GridCoord, d hex.Direction) hex.GridCoord {
	return m.Wrap(c.Add(d.Vector()))
}

// Each visits every cell chunk by chunk in index order.
func (m *ChunkMap[T]) Each(fn func(c hex.GridCoord, cell *T)) {
	for ci := range m.chunks {
		ch := &m.chunks[ci]
		o := m.ChunkOrigin(ch.Index)
		for i := range ch.Cells {
			c := hex.GridCoord{X: o.X + int32(i)%m.chunkSize, Y: o.Y + int32(i)/m.chunkSize}
			fn(c, &ch.Cells[i])
		}
	}
}

// EachInRadius visits the wrapped cells within radius of center in spiral
// order. On small maps a cell may be reached through more than one alias.
func (m *ChunkMap[T]) EachInRadius(center hex.GridCoord, radius int32, fn func(c hex.GridCoord, dist int32, cell *T)) {
	hex.Spiral(center, radius, func(c hex.GridCoord, ring int32) bool {
		w := m.Wrap(c)
		fn(w, ring, m.Cell(w))
		return true
	})
}

// MarkDirty flags the chunk holding c as modified since the last save.
func (m *ChunkMap[T]) MarkDirty(c hex.GridCoord) {
	m.dirty.Put(m.ChunkIndexOf(c))
}

// MarkAllDirty flags every chunk.
func (m *ChunkMap[T]) MarkAllDirty() {
	for i := range m.chunks {
		m.dirty.Put(int32(i))
	}
}

// DirtyChunks lists flagged chunk indices in ascending order.
func (m *ChunkMap[T]) DirtyChunks() []int32 {
	out := make([]int32, 0, m.dirty.Size())
	for i := range m.chunks {
		if m.dirty.Has(int32(i)) {
			out = append(out, int32(i))
		}
	}
	return out
}

// ClearDirty resets the dirty set after a successful save.
func (m *ChunkMap[T]) ClearDirty() {
	m.dirty = mapset.New[int32]()
}
