// Package geometry provides the axis-aligned bounding-box predicates used by
// background resolution. All coordinates are in document space.
package geometry

import "fmt"

// BBox is an axis-aligned bounding box in document coordinates.
type BBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"w" yaml:"w"`
	Height float64 `json:"h" yaml:"h"`
}

// String returns the box as "x,y wxh" for log output.
func (b BBox) String() string {
	return fmt.Sprintf("%g,%g %gx%g", b.X, b.Y, b.Width, b.Height)
}

// Intersects reports whether a and b overlap, using half-open interval
// overlap on both axes. Boxes that merely share an edge do not intersect.
// Degenerate boxes (zero width or height) never intersect anything.
func Intersects(a, b BBox) bool {
	if a.Width <= 0 || a.Height <= 0 || b.Width <= 0 || b.Height <= 0 {
		return false
	}
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// Contains reports whether inner lies entirely within outer. All four edges
// of inner must be at or inside the corresponding edge of outer, so a box
// contains itself.
func Contains(outer, inner BBox) bool {
	return inner.X >= outer.X &&
		inner.Y >= outer.Y &&
		inner.X+inner.Width <= outer.X+outer.Width &&
		inner.Y+inner.Height <= outer.Y+outer.Height
}
