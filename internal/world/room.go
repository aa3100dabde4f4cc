package world

import "github.com/samdwyer/dungeoncrawler/internal/geom"

// Room represents a rectangular room in the dungeon.
type Room struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions of the room
}

// Pos returns the room's top-left corner.
func (r Room) Pos() geom.Point {
	return geom.Pt(r.X, r.Y)
}

// Center returns the center tile of the room, rounding down.
func (r Room) Center() geom.Point {
	return geom.Pt(r.X+r.Width/2, r.Y+r.Height/2)
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(p geom.Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Overlaps returns true if the rooms intersect or touch edge to edge,
// so accepted rooms always keep at least one wall tile between them.
func (r Room) Overlaps(other Room) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// OverlapsAny returns true if the room overlaps any room in rooms.
func (r Room) OverlapsAny(rooms []Room) bool {
	for _, other := range rooms {
		if r.Overlaps(other) {
			return true
		}
	}
	return false
}

// LiesWithin reports whether the room lies strictly inside a width x height
// area, never touching its edges.
func (r Room) LiesWithin(width, height int) bool {
	return r.X > 0 && r.Y > 0 && r.X+r.Width < width && r.Y+r.Height < height
}

// Shift returns the room moved by d.
func (r Room) Shift(d geom.Point) Room {
	r.X += d.X
	r.Y += d.Y
	return r
}

// PathTo returns the tiles of a two-wide L-shaped corridor from this room's
// center to other's center. The vertical leg runs down the column of the upper
// endpoint (and the column to its left); the horizontal leg runs along the row
// where the vertical leg ends (and the row above it).
func (r Room) PathTo(other Room) []geom.Point {
	src := r.Center()
	dst := other.Center()

	var path []geom.Point
	if src.Y != dst.Y {
		top, bottom := src, dst
		if src.Y > dst.Y {
			top, bottom = dst, src
		}
		for _, x := range [2]int{top.X, top.X - 1} {
			for y := top.Y; y < bottom.Y; y++ {
				path = append(path, geom.Pt(x, y))
			}
		}
	}

	if src.X != dst.X {
		var y int
		switch {
		case len(path) > 0:
			y = path[len(path)-1].Y
		case src.X < dst.X:
			y = src.Y
		default:
			y = dst.Y
		}
		left, right := src.X, dst.X
		if left > right {
			left, right = right, left
		}
		for _, row := range [2]int{y, y - 1} {
			for x := left; x < right; x++ {
				path = append(path, geom.Pt(x, row))
			}
		}
	}

	return path
}
