// Package entity provides the living entities of the dungeon: the player, mobs and their weapons.
package entity

import (
	"time"

	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

// Weapon is an immutable set of attack stats plus one glyph per facing.
// Any number of entities may share the same *Weapon.
type Weapon struct {
	Name    string        `json:"name"`
	Attack  int           `json:"attack"`
	Cadence time.Duration `json:"cadence"` // How long the attacking flag stays raised
	Glyphs  [4]rune       `json:"glyphs"`  // Indexed by geom.Direction
}

// NewWeaponFromDef builds a weapon from a data-driven definition.
func NewWeaponFromDef(def *gamedata.WeaponDef) *Weapon {
	return &Weapon{
		Name:    def.Name,
		Attack:  def.Attack,
		Cadence: time.Duration(def.Cadence * float64(time.Second)),
		Glyphs: [4]rune{
			geom.Left:  firstRune(def.Glyphs.Left),
			geom.Up:    firstRune(def.Glyphs.Up),
			geom.Right: firstRune(def.Glyphs.Right),
			geom.Down:  firstRune(def.Glyphs.Down),
		},
	}
}

// Glyph returns the display glyph for the weapon held in the given facing.
func (w *Weapon) Glyph(facing geom.Direction) rune {
	if !facing.Valid() {
		return '?'
	}
	return w.Glyphs[facing]
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}
