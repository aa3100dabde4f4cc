package entity

import (
	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

// Mob is a hostile creature. Its ID doubles as its overlay code when rendering.
type Mob struct {
	Entity
	ID    int    // Unique per session, allocated by a Sequence
	Kind  string // Definition ID (e.g., "rat")
	Name  string // Display name
	Color string // Hex color from the definition
}

// NewMobFromDef creates a mob from a data-driven definition, facing left.
func NewMobFromDef(id int, def *gamedata.MobDef, weapon *Weapon, pos geom.Point) *Mob {
	return &Mob{
		Entity: NewEntity(def.GlyphRune(), def.Health, pos, geom.Left, weapon),
		ID:     id,
		Kind:   def.ID,
		Name:   def.Name,
		Color:  def.Color,
	}
}

// TurnToFace rotates the mob toward an orthogonally adjacent point.
// Points that are not orthogonal neighbours leave the facing unchanged.
func (m *Mob) TurnToFace(p geom.Point) bool {
	diff := p.Sub(m.Pos)
	switch {
	case diff.X == -1:
		return m.Face(geom.Left)
	case diff.X == 1:
		return m.Face(geom.Right)
	case diff.Y == 1:
		return m.Face(geom.Down)
	case diff.Y == -1:
		return m.Face(geom.Up)
	}
	return false
}
