package geom

// Direction is one of the four facings an entity can have.
type Direction int

const (
	Left Direction = iota
	Up
	Right
	Down
)

// Directions lists every facing in index order.
var Directions = [4]Direction{Left, Up, Right, Down}

// Delta returns the unit offset for the direction.
func (d Direction) Delta() Point {
	switch d {
	case Left:
		return Point{X: -1}
	case Up:
		return Point{Y: -1}
	case Right:
		return Point{X: 1}
	case Down:
		return Point{Y: 1}
	default:
		return Point{}
	}
}

// Valid reports whether d is one of the four facings.
func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}
