// Package geom provides integer grid geometry shared by the world and its entities.
package geom

import "math"

// Point is a position on the tile grid. X grows to the right, Y grows down.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Step returns the neighbouring point one tile away in direction d.
func (p Point) Step(d Direction) Point {
	return p.Add(d.Delta())
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Sqrt(float64(p.DistanceSqTo(q)))
}

// DistanceSqTo returns the squared Euclidean distance between p and q.
func (p Point) DistanceSqTo(q Point) int {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return dx*dx + dy*dy
}

// DistanceFromOrigin returns the Euclidean distance between p and (0,0).
func (p Point) DistanceFromOrigin() float64 {
	return p.DistanceTo(Point{})
}

// Closer reports whether p is strictly closer to the origin than q.
// Equal distances fall back to comparing X, then Y, so the order is total.
func (p Point) Closer(q Point) bool {
	dp, dq := p.DistanceSqTo(Point{}), q.DistanceSqTo(Point{})
	if dp != dq {
		return dp < dq
	}
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}
