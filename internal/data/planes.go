package data

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlaneInfo describes one plane, loaded from planes.yaml. Zero chunk counts
// fall back to the world defaults.
type PlaneInfo struct {
	ID         int16  `yaml:"id"`
	Name       string `yaml:"name"`
	ChunksX    int32  `yaml:"chunks_x"`
	ChunksY    int32  `yaml:"chunks_y"`
	SeedOffset uint64 `yaml:"seed_offset"`
	NoRivers   bool   `yaml:"no_rivers"`
	Revealed   bool   `yaml:"revealed"`  // start fully visible
	Heightmap  string `yaml:"heightmap"` // optional CSV, relative to the table file
}

// PlaneTable is the list of planes a world is built from.
type PlaneTable struct {
	planes map[int16]*PlaneInfo
	dir    string
}

type planeListFile struct {
	Planes []PlaneInfo `yaml:"planes"`
}

// LoadPlaneTable reads a plane list. Duplicate IDs are an error.
func LoadPlaneTable(path string) (*PlaneTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plane list %s: %w", path, err)
	}
	var file planeListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse plane list: %w", err)
	}

	table := &PlaneTable{
		planes: make(map[int16]*PlaneInfo, len(file.Planes)),
		dir:    filepath.Dir(path),
	}
	for i := range file.Planes {
		p := file.Planes[i]
		if _, dup := table.planes[p.ID]; dup {
			return nil, fmt.Errorf("plane list %s: duplicate plane id %d", path, p.ID)
		}
		if p.ChunksX < 0 || p.ChunksY < 0 {
			return nil, fmt.Errorf("plane list %s: plane %d has negative chunk counts", path, p.ID)
		}
		table.planes[p.ID] = &p
	}
	return table, nil
}

// DefaultPlaneTable holds a single plane 0 named name.
func DefaultPlaneTable(name string) *PlaneTable {
	return &PlaneTable{planes: map[int16]*PlaneInfo{0: {ID: 0, Name: name}}}
}

// Count returns the number of planes.
func (t *PlaneTable) Count() int {
	return len(t.planes)
}

// Get returns a plane, or nil if not found.
func (t *PlaneTable) Get(id int16) *PlaneInfo {
	return t.planes[id]
}

// All lists planes by ID.
func (t *PlaneTable) All() []*PlaneInfo {
	out := make([]*PlaneInfo, 0, len(t.planes))
	for _, p := range t.planes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HeightmapPath resolves a plane's heightmap against the table directory.
func (t *PlaneTable) HeightmapPath(p *PlaneInfo) string {
	if p.Heightmap == "" || filepath.IsAbs(p.Heightmap) {
		return p.Heightmap
	}
	return filepath.Join(t.dir, p.Heightmap)
}

// Heightmap is a rectangular grid of minimum elevations. Lookups wrap.
type Heightmap struct {
	Width  int32
	Height int32
	Values []int16 // row-major: [y*Width + x]
}

// At returns the value at (x, y), wrapping both axes.
func (h *Heightmap) At(x, y int32) int16 {
	x = ((x % h.Width) + h.Width) % h.Width
	y = ((y % h.Height) + h.Height) % h.Height
	return h.Values[int(y)*int(h.Width)+int(x)]
}

// LoadHeightmap reads a CSV file: each line is a row of comma-separated
// elevations. Blank lines and lines starting with '#' are skipped. The first
// row fixes the width; shorter rows are zero-padded and unparsable values
// read as 0.
func LoadHeightmap(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open heightmap %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]int16
	width := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		toks := strings.Split(line, ",")
		if width == 0 {
			width = len(toks)
		}
		row := make([]int16, width)
		for x, tok := range toks {
			if x >= width {
				break
			}
			val, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 16)
			if err != nil {
				val = 0
			}
			row[x] = int16(val)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read heightmap %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("heightmap %s is empty", path)
	}

	h := &Heightmap{Width: int32(width), Height: int32(len(rows))}
	h.Values = make([]int16, 0, width*len(rows))
	for _, r := range rows {
		h.Values = append(h.Values, r...)
	}
	return h, nil
}
