package geo

import (
	"github.com/golang/geo/r3"
)

// BoundingBox is an axis-aligned rectangle, used to conservatively enclose
// obstacles and trajectory segments for cheap overlap pre-filtering.
type BoundingBox struct {
	Min, Max Vector
}

// NewBoundingBox returns the tight box enclosing the two given corners,
// regardless of their relative ordering.
func NewBoundingBox(a, b Vector) BoundingBox {
	box := BoundingBox{Min: a, Max: a}
	return box.MergePoint(b)
}

// EmptyBoundingBox returns a box that contains no points; merging any point
// into it produces the box around just that point.
func EmptyBoundingBox() BoundingBox {
	inf := float32(1) / 0 // +Inf
	return BoundingBox{
		Min: Vector{inf, inf},
		Max: Vector{-inf, -inf},
	}
}

// IsInside reports whether p lies within the box (inclusive of the border).
func (b BoundingBox) IsInside(p Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether b and o overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	if b.Max.X < o.Min.X || o.Max.X < b.Min.X {
		return false
	}
	if b.Max.Y < o.Min.Y || o.Max.Y < b.Min.Y {
		return false
	}
	return true
}

// MergePoint grows the box, if needed, to also contain p.
func (b BoundingBox) MergePoint(p Vector) BoundingBox {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}

// Merge grows the box, if needed, to also contain o.
func (b BoundingBox) Merge(o BoundingBox) BoundingBox {
	return b.MergePoint(o.Min).MergePoint(o.Max)
}

// AddExtraRadius inflates the box by r in every direction.
func (b BoundingBox) AddExtraRadius(r float32) BoundingBox {
	return BoundingBox{
		Min: Vector{b.Min.X - r, b.Min.Y - r},
		Max: Vector{b.Max.X + r, b.Max.Y + r},
	}
}

// ToR3Box lifts the box into a 3-D r3.Box-compatible pair of corners
// (Z spans [0, 0]), for interop with 3-D geometry helpers.
func (b BoundingBox) ToR3Box() (min, max r3.Vector) {
	return b.Min.ToR3(), b.Max.ToR3()
}

// FromR3Box builds a 2-D bounding box from two 3-D corners, dropping Z.
func FromR3Box(min, max r3.Vector) BoundingBox {
	return NewBoundingBox(FromR3(min), FromR3(max))
}
