// Package turtle interprets a derived L-system string as turtle-graphics
// commands and produces disconnected polylines.
package turtle

import "math"

// Point is a position in world space. The y axis points up.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Rotate returns p rotated counterclockwise by theta radians.
func (p Point) Rotate(theta float64) Point {
	sin, cos := math.Sincos(theta)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// Path is an ordered polyline. A single-point path is valid and draws
// nothing.
type Path []Point

// Paths is the interpreter output: independently drawable polylines.
type Paths []Path

// PointCount returns the total number of points across all paths.
func (ps Paths) PointCount() int {
	n := 0
	for _, p := range ps {
		n += len(p)
	}
	return n
}

// Bounds returns the axis-aligned bounding box of every point.
func (ps Paths) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range ps {
		for _, pt := range p {
			b = b.Extend(pt)
		}
	}
	return b
}

// Bounds is an axis-aligned box. The zero value is a degenerate box at the
// origin; use EmptyBounds for a box containing nothing.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// EmptyBounds returns a box that any point will replace when extended.
func EmptyBounds() Bounds {
	return Bounds{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Empty reports whether the box contains no points.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend returns the smallest box containing b and p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		Min: Point{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)},
		Max: Point{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)},
	}
}

// Size returns the width and height of the box, or zero if empty.
func (b Bounds) Size() (w, h float64) {
	if b.Empty() {
		return 0, 0
	}
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y
}

// Center returns the midpoint of the box, or the origin if empty.
func (b Bounds) Center() Point {
	if b.Empty() {
		return Point{}
	}
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}
