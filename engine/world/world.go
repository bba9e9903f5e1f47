// Package world holds the map data the viewer reads: the grid, its biome regions
// and the structures standing on it. Renderers only ever read a World.
package world

import (
	"errors"
	"fmt"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/iso"
)

// MaxBiomeRegions is the number of region slots the map shader carries.
const MaxBiomeRegions = 8

var (
	ErrInvalidWorld = errors.New("invalid world")
	ErrNoGroup      = errors.New("no such group")
)

// Rect is an axis-aligned block of tiles: X..X+W-1 by Y..Y+H-1.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (r Rect) Contains(i, j int) bool {
	return i >= r.X && i < r.X+r.W && j >= r.Y && j < r.Y+r.H
}

func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Biome is a named ground colour.
type Biome struct {
	Name  string       `yaml:"name"`
	Color colors.Color `yaml:"color"`
}

// BiomeRegion paints its Biome over Area. Regions are tested in slice order and the
// first hit wins; tiles outside every region fall back to World.Default.
type BiomeRegion struct {
	Biome `yaml:",inline"`
	Area  Rect `yaml:"area"`
}

// Structure is anything with a footprint on the grid.
type Structure struct {
	ID     string       `yaml:"id"`
	Name   string       `yaml:"name"`
	Rect   `yaml:",inline"`
	Color  colors.Color `yaml:"color"`
	Border colors.Color `yaml:"border"`
}

// HasBorder reports whether an outline colour was configured.
func (s Structure) HasBorder() bool { return !s.Border.IsZero() }

// Tile is an integer grid position.
type Tile struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Group owns user-placed structures and the territory it claims.
type Group struct {
	Name       string       `yaml:"name"`
	Color      colors.Color `yaml:"color"`
	Structures []Structure  `yaml:"structures"`
	Territory  []Tile       `yaml:"territory"`
}

type World struct {
	Name       string        `yaml:"name"`
	Size       int           `yaml:"size"`
	TileW      float64       `yaml:"tile_w"`
	TileH      float64       `yaml:"tile_h"`
	Background colors.Color  `yaml:"background"`
	Grid       colors.Color  `yaml:"grid"`
	Default    Biome         `yaml:"default"`
	Biomes     []BiomeRegion `yaml:"biomes"`
	Structures []Structure   `yaml:"structures"`
	Groups     []*Group      `yaml:"groups"`

	revision uint64
}

// Projection returns the isometric projection for this world's tile size.
func (w *World) Projection() iso.Projection { return iso.NewProjection(w.TileW, w.TileH) }

// Revision changes every time placed structures are edited.
func (w *World) Revision() uint64 { return w.revision }

// Replace swaps in the contents of a freshly loaded world, keeping this pointer
// valid for every reader that holds it.
func (w *World) Replace(next *World) {
	rev := w.revision + 1
	*w = *next
	w.revision = rev
}

// BiomeIndex returns the index of the first region containing tile (i, j), or -1
// for the default biome. Callers bounds-check the tile first.
func (w *World) BiomeIndex(i, j int) int {
	for k := range w.Biomes {
		if w.Biomes[k].Area.Contains(i, j) {
			return k
		}
	}
	return -1
}

// BiomeAt resolves the biome painted on tile (i, j).
func (w *World) BiomeAt(i, j int) Biome {
	if k := w.BiomeIndex(i, j); k >= 0 {
		return w.Biomes[k].Biome
	}
	return w.Default
}

// InBounds reports whether tile (i, j) is on the grid.
func (w *World) InBounds(i, j int) bool { return iso.InGrid(i, j, w.Size) }

// Group looks a group up by name.
func (w *World) Group(name string) (*Group, bool) {
	for _, g := range w.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// StructureAt finds the topmost structure occupying tile (i, j). Placed structures
// are drawn after fixed ones, so they are searched first, latest group first.
func (w *World) StructureAt(i, j int) (StructureSelection, bool) {
	for g := len(w.Groups) - 1; g >= 0; g-- {
		grp := w.Groups[g]
		for k := len(grp.Structures) - 1; k >= 0; k-- {
			if grp.Structures[k].Contains(i, j) {
				return StructureSelection{Variant: Placed, Group: grp.Name, Structure: grp.Structures[k]}, true
			}
		}
	}
	for k := len(w.Structures) - 1; k >= 0; k-- {
		if w.Structures[k].Contains(i, j) {
			return StructureSelection{Variant: Fixed, Structure: w.Structures[k]}, true
		}
	}
	return StructureSelection{}, false
}

// Place adds a user structure to group. The footprint must lie on the grid.
func (w *World) Place(group string, s Structure) error {
	g, ok := w.Group(group)
	if !ok {
		return fmt.Errorf("place %q: %w: %q", s.ID, ErrNoGroup, group)
	}
	if err := w.checkFootprint(s); err != nil {
		return fmt.Errorf("place %q: %w", s.ID, err)
	}
	if s.Color.IsZero() {
		s.Color = g.Color
	}
	g.Structures = append(g.Structures, s)
	w.revision++
	return nil
}

// Remove deletes a placed structure by id and reports whether it existed.
func (w *World) Remove(group, id string) bool {
	g, ok := w.Group(group)
	if !ok {
		return false
	}
	for k := range g.Structures {
		if g.Structures[k].ID == id {
			g.Structures = append(g.Structures[:k], g.Structures[k+1:]...)
			w.revision++
			return true
		}
	}
	return false
}

// Validate checks the invariants the renderers rely on.
func (w *World) Validate() error {
	if w.Size <= 0 {
		return fmt.Errorf("%w: size %d must be positive", ErrInvalidWorld, w.Size)
	}
	if w.TileW <= 0 || w.TileH <= 0 {
		return fmt.Errorf("%w: tile size %vx%v must be positive", ErrInvalidWorld, w.TileW, w.TileH)
	}
	if len(w.Biomes) > MaxBiomeRegions {
		return fmt.Errorf("%w: %d biome regions, at most %d supported", ErrInvalidWorld, len(w.Biomes), MaxBiomeRegions)
	}
	for _, b := range w.Biomes {
		if b.Area.Empty() {
			return fmt.Errorf("%w: biome %q has an empty area", ErrInvalidWorld, b.Name)
		}
	}
	seen := make(map[string]bool)
	check := func(s Structure) error {
		if s.ID == "" {
			return fmt.Errorf("%w: structure %q has no id", ErrInvalidWorld, s.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate structure id %q", ErrInvalidWorld, s.ID)
		}
		seen[s.ID] = true
		return w.checkFootprint(s)
	}
	for _, s := range w.Structures {
		if err := check(s); err != nil {
			return err
		}
	}
	for _, g := range w.Groups {
		if g.Name == "" {
			return fmt.Errorf("%w: group without a name", ErrInvalidWorld)
		}
		for _, s := range g.Structures {
			if err := check(s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *World) checkFootprint(s Structure) error {
	if s.Empty() {
		return fmt.Errorf("%w: structure %q has an empty footprint", ErrInvalidWorld, s.ID)
	}
	if !w.InBounds(s.X, s.Y) || !w.InBounds(s.X+s.W-1, s.Y+s.H-1) {
		return fmt.Errorf("%w: structure %q at %d,%d size %dx%d is off the %dx%d grid",
			ErrInvalidWorld, s.ID, s.X, s.Y, s.W, s.H, w.Size, w.Size)
	}
	return nil
}
