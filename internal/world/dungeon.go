package world

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

const (
	// Default level dimensions, border included.
	DefaultWidth  = 202
	DefaultHeight = 62

	// Room placement parameters
	MinRooms      = 6
	MaxRooms      = 11
	MinRoomWidth  = 12
	MaxRoomWidth  = 40 // exclusive
	MinRoomHeight = 12
	MaxRoomHeight = 15 // exclusive
)

var (
	// ErrNoRooms is returned when room placement accepted no rooms.
	ErrNoRooms = errors.New("no rooms placed")
	// ErrInvalidOptions is returned for layout parameters that can never work.
	ErrInvalidOptions = errors.New("invalid layout options")
)

// Layout holds the tunable parameters of room placement.
type Layout struct {
	Width, Height int // Full level size including the border
	MinRooms      int
	MaxRooms      int // exclusive upper bound of the per-pass room count
	MinRoomWidth  int
	MaxRoomWidth  int // exclusive
	MinRoomHeight int
	MaxRoomHeight int // exclusive
}

// DefaultLayout returns the standard layout parameters.
func DefaultLayout() Layout {
	return Layout{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MinRooms:      MinRooms,
		MaxRooms:      MaxRooms,
		MinRoomWidth:  MinRoomWidth,
		MaxRoomWidth:  MaxRoomWidth,
		MinRoomHeight: MinRoomHeight,
		MaxRoomHeight: MaxRoomHeight,
	}
}

// Validate rejects parameters that would break placement outright.
func (l Layout) Validate() error {
	switch {
	case l.Width < 3 || l.Height < 3:
		return fmt.Errorf("%w: level %dx%d too small", ErrInvalidOptions, l.Width, l.Height)
	case l.MinRooms < 1 || l.MaxRooms <= l.MinRooms:
		return fmt.Errorf("%w: room count range [%d,%d)", ErrInvalidOptions, l.MinRooms, l.MaxRooms)
	case l.MinRoomWidth < 1 || l.MaxRoomWidth <= l.MinRoomWidth:
		return fmt.Errorf("%w: room width range [%d,%d)", ErrInvalidOptions, l.MinRoomWidth, l.MaxRoomWidth)
	case l.MinRoomHeight < 1 || l.MaxRoomHeight <= l.MinRoomHeight:
		return fmt.Errorf("%w: room height range [%d,%d)", ErrInvalidOptions, l.MinRoomHeight, l.MaxRoomHeight)
	}
	return nil
}

// Dungeon is the static layout of one level while it is being built.
type Dungeon struct {
	Width  int
	Height int
	Tiles  [][]Tile
	Rooms  []Room     // Sorted closest-to-origin first once built
	Door   geom.Point // Right half of the exit door
	layout Layout
	rng    *rand.Rand
}

// NewDungeon allocates the inner, border-less area filled with walls.
func NewDungeon(layout Layout, rng *rand.Rand) *Dungeon {
	width, height := layout.Width-2, layout.Height-2
	return &Dungeon{
		Width:  width,
		Height: height,
		Tiles:  newTiles(width, height),
		Rooms:  make([]Room, 0, layout.MaxRooms),
		layout: layout,
		rng:    rng,
	}
}

func newTiles(width, height int) [][]Tile {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width) // zero value is TileWall
	}
	return tiles
}

// Build runs the layout pipeline: place and stamp rooms, sort them, add the
// border, connect consecutive rooms and open the door. It returns ErrNoRooms
// when placement accepted nothing.
func (d *Dungeon) Build() error {
	d.placeRooms()
	if len(d.Rooms) == 0 {
		return ErrNoRooms
	}
	for _, room := range d.Rooms {
		d.carveRoom(room)
	}
	d.sortRooms()
	d.addBorder()
	d.connectRooms()
	d.Door = d.addDoor()
	return nil
}

// placeRooms draws random rooms and keeps the ones that fit.
func (d *Dungeon) placeRooms() {
	l := d.layout
	count := l.MinRooms + d.rng.Intn(l.MaxRooms-l.MinRooms)

	for i := 0; i < l.MinRooms; i++ {
		for j := 0; j < count; j++ {
			if len(d.Rooms) >= l.MaxRooms {
				break
			}
			room := Room{
				X:      d.rng.Intn(d.Width),
				Y:      d.rng.Intn(d.Height),
				Width:  l.MinRoomWidth + d.rng.Intn(l.MaxRoomWidth-l.MinRoomWidth),
				Height: l.MinRoomHeight + d.rng.Intn(l.MaxRoomHeight-l.MinRoomHeight),
			}
			if room.LiesWithin(d.Width, d.Height) && !room.OverlapsAny(d.Rooms) {
				d.Rooms = append(d.Rooms, room)
			}
		}
	}
}

// carveRoom sets all tiles within the room to floor.
func (d *Dungeon) carveRoom(room Room) {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			d.setFloor(geom.Pt(x, y))
		}
	}
}

// sortRooms orders rooms by the distance of their corner from the origin.
func (d *Dungeon) sortRooms() {
	sort.Slice(d.Rooms, func(i, j int) bool {
		return d.Rooms[i].Pos().Closer(d.Rooms[j].Pos())
	})
}

// addBorder wraps the layout in a ring of walls and shifts every room by (+1,+1).
func (d *Dungeon) addBorder() {
	tiles := newTiles(d.Width+2, d.Height+2)
	for y, row := range d.Tiles {
		copy(tiles[y+1][1:], row)
	}
	d.Tiles = tiles
	d.Width += 2
	d.Height += 2

	for i := range d.Rooms {
		d.Rooms[i] = d.Rooms[i].Shift(geom.Pt(1, 1))
	}
}

// connectRooms carves a corridor between each consecutive pair of sorted rooms.
func (d *Dungeon) connectRooms() {
	for i := 0; i+1 < len(d.Rooms); i++ {
		d.carvePath(d.Rooms[i].PathTo(d.Rooms[i+1]))
	}
}

// addDoor carves a corridor from the closest room straight up to row 1 and
// sets the two door tiles in the top border. It returns the door position.
func (d *Dungeon) addDoor() geom.Point {
	anchor := d.Rooms[0]
	sentinel := Room{X: anchor.Center().X, Y: 1}
	d.carvePath(anchor.PathTo(sentinel))

	d.Tiles[0][sentinel.X-1] = TileDoorLeft
	d.Tiles[0][sentinel.X] = TileDoorRight
	return geom.Pt(sentinel.X, 0)
}

// carvePath sets every in-bounds, non-border tile of path to floor.
func (d *Dungeon) carvePath(path []geom.Point) {
	for _, p := range path {
		d.setFloor(p)
	}
}

func (d *Dungeon) setFloor(p geom.Point) {
	if p.X >= 0 && p.X < d.Width && p.Y >= 0 && p.Y < d.Height {
		d.Tiles[p.Y][p.X] = TileFloor
	}
}

// Spawn returns the center of the room farthest from the origin.
func (d *Dungeon) Spawn() geom.Point {
	return d.Rooms[len(d.Rooms)-1].Center()
}

// RandomPointInRoom returns the room center displaced by a random offset
// that keeps a two-tile margin from the walls, clamped inside the room.
func (d *Dungeon) RandomPointInRoom(room Room) geom.Point {
	offset := geom.Pt(randomOffset(d.rng, room.Width), randomOffset(d.rng, room.Height))
	p := room.Center().Add(offset)
	p.X = clamp(p.X, room.X, room.X+room.Width-1)
	p.Y = clamp(p.Y, room.Y, room.Y+room.Height-1)
	return p
}

// randomOffset draws from [-ceil((size-4)/2), floor((size-4)/2)).
func randomOffset(rng *rand.Rand, size int) int {
	span := size - 4
	lo := -((span + 1) / 2)
	hi := span / 2
	if hi <= lo {
		return 0
	}
	return lo + rng.Intn(hi-lo)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
