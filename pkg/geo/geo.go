// Package geo provides the small geometry kit shared by the canvas and
// workflow editors: points, rectangles and cubic bezier evaluation.
package geo

import "math"

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by factor s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// DistanceTo returns the euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Midpoint returns the linear midpoint between p and q.
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside the rectangle. Edges count
// as inside so clicks on a component border still hit it.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// CubicBezier is a cubic bezier curve defined by its endpoints and two
// control points.
type CubicBezier struct {
	Start    Point `json:"start"`
	Control1 Point `json:"control1"`
	Control2 Point `json:"control2"`
	End      Point `json:"end"`
}

// At evaluates the curve at parameter t in [0, 1].
func (b CubicBezier) At(t float64) Point {
	u := 1 - t

	// De Casteljau expanded form.
	return Point{
		X: u*u*u*b.Start.X + 3*u*u*t*b.Control1.X + 3*u*t*t*b.Control2.X + t*t*t*b.End.X,
		Y: u*u*u*b.Start.Y + 3*u*u*t*b.Control1.Y + 3*u*t*t*b.Control2.Y + t*t*t*b.End.Y,
	}
}
