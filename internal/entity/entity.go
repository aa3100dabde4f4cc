package entity

import "github.com/samdwyer/dungeoncrawler/internal/geom"

// Entity is the state shared by everything that lives in the dungeon.
// Mob and Player embed it.
type Entity struct {
	Glyph  rune           // Display symbol
	Pos    geom.Point     // Current tile
	Facing geom.Direction // Direction the weapon points
	Weapon *Weapon        // Equipped weapon, never nil

	health    int
	maxHealth int
	attacking bool
	attackSeq uint64
}

// NewEntity creates an entity at full health.
func NewEntity(glyph rune, health int, pos geom.Point, facing geom.Direction, weapon *Weapon) Entity {
	return Entity{
		Glyph:     glyph,
		Pos:       pos,
		Facing:    facing,
		Weapon:    weapon,
		health:    health,
		maxHealth: health,
	}
}

// Health returns the current and maximum health.
func (e *Entity) Health() (current, maximum int) {
	return e.health, e.maxHealth
}

// SetHealth overwrites the health pair, used when restoring a snapshot.
func (e *Entity) SetHealth(current, maximum int) {
	e.health = current
	e.maxHealth = maximum
}

// IsAlive returns true while health is above zero.
func (e *Entity) IsAlive() bool { return e.health > 0 }

// Wounded reports whether the entity is below maximum health.
func (e *Entity) Wounded() bool { return e.health < e.maxHealth }

// TakeDamage subtracts amount from health. Health may drop below zero;
// the owner removes the entity on its next dead check.
func (e *Entity) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	e.health -= amount
}

// Heal restores health up to the maximum and returns the amount actually healed.
func (e *Entity) Heal(amount int) int {
	if amount <= 0 || e.health >= e.maxHealth {
		return 0
	}
	actual := amount
	if e.health+actual > e.maxHealth {
		actual = e.maxHealth - e.health
	}
	e.health += actual
	return actual
}

// Face turns the entity and reports whether the facing changed.
func (e *Entity) Face(d geom.Direction) bool {
	if e.Facing == d {
		return false
	}
	e.Facing = d
	return true
}

// WeaponPos returns the tile the weapon tip occupies.
func (e *Entity) WeaponPos() geom.Point {
	return e.Pos.Step(e.Facing)
}

// WeaponGlyph returns the weapon glyph for the current facing.
func (e *Entity) WeaponGlyph() rune {
	return e.Weapon.Glyph(e.Facing)
}

// AttackPower returns the damage dealt by one hit.
func (e *Entity) AttackPower() int {
	return e.Weapon.Attack
}

// IsAttacking reports whether the attacking flag is raised.
func (e *Entity) IsAttacking() bool { return e.attacking }

// BeginAttack raises the attacking flag and returns a token identifying this attack.
// Pass the token to EndAttack once the weapon cadence has elapsed.
func (e *Entity) BeginAttack() uint64 {
	e.attackSeq++
	e.attacking = true
	return e.attackSeq
}

// EndAttack lowers the attacking flag unless a newer attack started after token.
// It reports whether the flag changed.
func (e *Entity) EndAttack(token uint64) bool {
	if token != e.attackSeq || !e.attacking {
		return false
	}
	e.attacking = false
	return true
}
