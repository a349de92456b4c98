// Package geometry provides the 2D value types shared by the viewer engine.
package geometry

import "math"

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Expand returns the rectangle grown by margin on every side.
// A negative margin shrinks it.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}
