package entity

import "github.com/samdwyer/dungeoncrawler/internal/geom"

const (
	// PlayerGlyph is the player's display symbol.
	PlayerGlyph = '&'
	// PlayerStartHealth is the health of a freshly created player.
	PlayerStartHealth = 20
)

// Player is the entity controlled by the user. A single Player value
// survives level transitions; only its position is reassigned.
type Player struct {
	Entity
}

// NewPlayer creates a player at full starting health facing left.
func NewPlayer(pos geom.Point, weapon *Weapon) *Player {
	return &Player{
		Entity: NewEntity(PlayerGlyph, PlayerStartHealth, pos, geom.Left, weapon),
	}
}

// Respawn places the player on a new level, keeping health and weapon.
func (p *Player) Respawn(pos geom.Point) {
	p.Pos = pos
}
