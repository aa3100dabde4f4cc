package world

import (
	"fmt"
	"sort"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeoncrawler/internal/entity"
	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

const (
	// FOV dimensions in tiles.
	FOVWidth  = 80
	FOVHeight = 24

	// Mobs farther than this (Euclidean, in tiles) stay idle.
	mobSightRange = 18
	// The player counts as at the door within this distance of it.
	doorReach = 1.6
	// Health granted by one heart.
	heartHeal = 1
)

// Grid is the live state of one level. It is not safe for concurrent use;
// callers serialize access (see game.Session).
type Grid struct {
	tiles  [][]Tile
	width  int
	height int

	player       *entity.Player
	mobs         map[int]*entity.Mob
	hearts       mapset.Set[geom.Point]
	door         geom.Point
	level        int
	currentEnemy int // Mob ID, 0 when nobody is engaged
	dirty        bool
}

// NewGrid assembles a grid. Every entity and heart must lie inside tiles.
func NewGrid(tiles [][]Tile, player *entity.Player, mobs map[int]*entity.Mob, hearts mapset.Set[geom.Point], door geom.Point, level int) *Grid {
	g := &Grid{
		tiles:  tiles,
		height: len(tiles),
		player: player,
		mobs:   mobs,
		hearts: hearts,
		door:   door,
		level:  level,
		dirty:  true,
	}
	if g.height > 0 {
		g.width = len(tiles[0])
	}
	if g.mobs == nil {
		g.mobs = make(map[int]*entity.Mob)
	}

	g.mustInBounds(player.Pos, "player")
	g.mustInBounds(door, "door")
	for id, m := range g.mobs {
		g.mustInBounds(m.Pos, fmt.Sprintf("mob %d", id))
	}
	hearts.Each(func(p geom.Point) {
		g.mustInBounds(p, "heart")
	})
	return g
}

// mustInBounds panics on positions outside the grid. Such a position means
// the generator's coordinate bookkeeping is broken.
func (g *Grid) mustInBounds(p geom.Point, what string) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("world: %s at %v outside %dx%d grid", what, p, g.width, g.height))
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Level returns the zero-based level number.
func (g *Grid) Level() int { return g.level }

// Door returns the door position.
func (g *Grid) Door() geom.Point { return g.door }

// Player returns the player.
func (g *Grid) Player() *entity.Player { return g.player }

// InBounds reports whether p is a cell of the grid.
func (g *Grid) InBounds(p geom.Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// TileAt returns the static tile at p, or TileWall outside the grid.
func (g *Grid) TileAt(p geom.Point) Tile {
	if !g.InBounds(p) {
		return TileWall
	}
	return g.tiles[p.Y][p.X]
}

// IsPassable returns true if an entity may stand on p.
func (g *Grid) IsPassable(p geom.Point) bool {
	return g.TileAt(p).IsPassable()
}

// Mob returns the live mob with the given ID.
func (g *Grid) Mob(id int) (*entity.Mob, bool) {
	m, ok := g.mobs[id]
	return m, ok
}

// MobCount returns the number of live mobs.
func (g *Grid) MobCount() int { return len(g.mobs) }

// MobIDs returns the live mob IDs in ascending order.
func (g *Grid) MobIDs() []int {
	ids := make([]int, 0, len(g.mobs))
	for id := range g.mobs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// HasHeart reports whether a heart lies at p.
func (g *Grid) HasHeart(p geom.Point) bool { return g.hearts.Has(p) }

// HeartCount returns the number of hearts left on the level.
func (g *Grid) HeartCount() int { return g.hearts.Size() }

// Hearts returns the heart positions ordered by distance from the origin.
func (g *Grid) Hearts() []geom.Point {
	out := make([]geom.Point, 0, g.hearts.Size())
	g.hearts.Each(func(p geom.Point) {
		out = append(out, p)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Closer(out[j]) })
	return out
}

// PlayerHealth returns the player's current and maximum health.
func (g *Grid) PlayerHealth() (int, int) { return g.player.Health() }

// PlayerAlive reports whether the player still has health left.
func (g *Grid) PlayerAlive() bool { return g.player.IsAlive() }

// CurrentEnemy returns the mob engaged with the player, if any.
func (g *Grid) CurrentEnemy() (*entity.Mob, bool) {
	if g.currentEnemy == 0 {
		return nil, false
	}
	return g.Mob(g.currentEnemy)
}

// TakeDirty reports whether renderable state changed since the last call, and clears the flag.
func (g *Grid) TakeDirty() bool {
	d := g.dirty
	g.dirty = false
	return d
}

// MarkDirty forces the next TakeDirty to report a change.
func (g *Grid) MarkDirty() { g.dirty = true }

// Move turns e toward d and steps it there if the target tile is passable.
// Facing changes even when the step is blocked. When e is the player, a
// successful step onto a heart while wounded consumes the heart.
func (g *Grid) Move(e *entity.Entity, d geom.Direction) bool {
	if e.Face(d) {
		g.dirty = true
	}

	target := e.Pos.Step(d)
	if !g.IsPassable(target) {
		return false
	}
	e.Pos = target
	g.dirty = true

	if e == &g.player.Entity {
		g.pickUpHeart()
	}
	return true
}

// MovePlayer moves the player one tile in direction d.
func (g *Grid) MovePlayer(d geom.Direction) bool {
	return g.Move(&g.player.Entity, d)
}

func (g *Grid) pickUpHeart() {
	pos := g.player.Pos
	if !g.player.Wounded() || !g.hearts.Has(pos) {
		return
	}
	g.hearts.Remove(pos)
	g.player.Heal(heartHeal)
}

// AtDoor reports whether the player is close enough to the door to leave the level.
func (g *Grid) AtDoor() bool {
	return g.player.Pos.DistanceTo(g.door) <= doorReach
}

// AttackResult describes a player attack.
type AttackResult struct {
	Token      uint64        // Pass to EndAttack after ClearAfter
	ClearAfter time.Duration // Weapon cadence
	Target     int           // Mob ID hit, 0 for none
	Damage     int
}

// Attack raises the player's attacking flag and, when an enemy is engaged,
// deals the weapon's damage to it at once.
func (g *Grid) Attack() AttackResult {
	res := AttackResult{
		Token:      g.player.BeginAttack(),
		ClearAfter: g.player.Weapon.Cadence,
	}
	g.dirty = true

	if m, ok := g.CurrentEnemy(); ok {
		res.Damage = g.player.AttackPower()
		res.Target = m.ID
		m.TakeDamage(res.Damage)
	}
	return res
}

// EndAttack lowers the attacking flag raised by the attack with the given
// token, unless the player attacked again since.
func (g *Grid) EndAttack(token uint64) bool {
	if !g.player.EndAttack(token) {
		return false
	}
	g.dirty = true
	return true
}

// UpdateResult summarizes one Update pass.
type UpdateResult struct {
	Culled      int // ID of the mob removed this pass, 0 for none
	Moved       int // Successful mob steps
	Hits        int // Mob hits landed on the player
	DamageTaken int
}

// Update runs one tick: removes at most one dead mob, then lets every live
// mob pursue, turn toward or strike the player.
func (g *Grid) Update() UpdateResult {
	var res UpdateResult

	ids := g.MobIDs()
	for i, id := range ids {
		if !g.mobs[id].IsAlive() {
			delete(g.mobs, id)
			g.currentEnemy = 0
			g.dirty = true
			res.Culled = id
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}

	for _, id := range ids {
		m := g.mobs[id]
		if !m.IsAlive() {
			continue
		}
		g.actMob(m, &res)
	}

	if m, ok := g.CurrentEnemy(); !ok || m.Pos.DistanceSqTo(g.player.Pos) != 1 {
		if g.currentEnemy != 0 {
			g.currentEnemy = 0
			g.dirty = true
		}
	}
	return res
}

// actMob applies the chase heuristic: close the larger-than-one gaps axis by
// axis, then strike if adjacent and facing the player, or turn toward them.
func (g *Grid) actMob(m *entity.Mob, res *UpdateResult) {
	target := g.player.Pos
	dist := m.Pos.DistanceSqTo(target)

	if dist <= mobSightRange*mobSightRange && dist != 1 {
		if dy := target.Y - m.Pos.Y; abs(dy) > 1 {
			if g.Move(&m.Entity, verticalToward(dy)) {
				res.Moved++
			}
		}
		if dx := target.X - m.Pos.X; abs(dx) > 1 {
			if g.Move(&m.Entity, horizontalToward(dx)) {
				res.Moved++
			}
		}
	}

	if m.Pos.DistanceSqTo(target) != 1 {
		return
	}
	if m.WeaponPos() == target {
		damage := m.AttackPower()
		g.player.TakeDamage(damage)
		res.Hits++
		res.DamageTaken += damage
		g.currentEnemy = m.ID
	} else {
		m.TurnToFace(target)
	}
	g.dirty = true
}

func verticalToward(dy int) geom.Direction {
	if dy < 0 {
		return geom.Up
	}
	return geom.Down
}

func horizontalToward(dx int) geom.Direction {
	if dx < 0 {
		return geom.Left
	}
	return geom.Right
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
