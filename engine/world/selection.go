package world

import "fmt"

// Selection is the closed set of things a click can select. The only
// implementations are TileSelection and StructureSelection.
type Selection interface {
	isSelection()
	fmt.Stringer
}

type TileSelection struct {
	X, Y int
}

func (TileSelection) isSelection() {}

func (s TileSelection) String() string { return fmt.Sprintf("tile %d,%d", s.X, s.Y) }

// StructureVariant tells fixed map structures from user-placed ones.
type StructureVariant int

const (
	Fixed StructureVariant = iota
	Placed
)

func (v StructureVariant) String() string {
	switch v {
	case Fixed:
		return "fixed"
	case Placed:
		return "placed"
	default:
		return fmt.Sprintf("StructureVariant(%d)", int(v))
	}
}

type StructureSelection struct {
	Variant   StructureVariant
	Group     string // owning group, empty for fixed structures
	Structure Structure
}

func (StructureSelection) isSelection() {}

func (s StructureSelection) String() string {
	if s.Variant == Placed {
		return fmt.Sprintf("%s %q (%s)", s.Variant, s.Structure.ID, s.Group)
	}
	return fmt.Sprintf("%s %q", s.Variant, s.Structure.ID)
}

// Footprint returns the tile rectangle a selection outlines.
func Footprint(sel Selection) Rect {
	switch s := sel.(type) {
	case TileSelection:
		return Rect{X: s.X, Y: s.Y, W: 1, H: 1}
	case StructureSelection:
		return s.Structure.Rect
	default:
		panic(fmt.Sprintf("world: unknown selection %T", sel))
	}
}
