// Package world provides level generation and the live simulation grid.
package world

// Tile is the static code stored for one cell of the level layout.
type Tile int8

const (
	// TileWall is an impassable wall tile.
	TileWall Tile = 0
	// TileFloor is a passable floor tile.
	TileFloor Tile = 1
	// TileDoorLeft is the left half of the exit door.
	TileDoorLeft Tile = 2
	// TileDoorRight is the right half of the exit door.
	TileDoorRight Tile = 3
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t == TileFloor || t == TileDoorLeft || t == TileDoorRight
}

// Overlay codes used on top of the static tiles when rendering.
// Mob IDs start at FirstMobID so they never collide with these.
const (
	CodeHeart  = -1
	CodePlayer = 4
	CodeWeapon = 5
	FirstMobID = 6
)
