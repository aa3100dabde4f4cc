package world

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeoncrawler/internal/entity"
	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

// ErrBadSnapshot is returned when a snapshot cannot describe a valid grid.
var ErrBadSnapshot = errors.New("invalid snapshot")

// EntityState is the serializable form of an entity.
type EntityState struct {
	Glyph     rune           `json:"glyph"`
	Pos       geom.Point     `json:"pos"`
	Facing    geom.Direction `json:"facing"`
	Health    int            `json:"health"`
	MaxHealth int            `json:"maxHealth"`
	Weapon    entity.Weapon  `json:"weapon"`
}

// MobState is the serializable form of a mob.
type MobState struct {
	EntityState
	ID    int    `json:"id"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Snapshot is a closed, pointer-free copy of a Grid. The attacking flag is
// transient and is not captured.
type Snapshot struct {
	Level        int          `json:"level"`
	Tiles        [][]Tile     `json:"tiles"`
	Door         geom.Point   `json:"door"`
	Player       EntityState  `json:"player"`
	Mobs         []MobState   `json:"mobs"`
	Hearts       []geom.Point `json:"hearts"`
	CurrentEnemy int          `json:"currentEnemy,omitempty"`
}

func captureEntity(e *entity.Entity) EntityState {
	cur, maxHP := e.Health()
	return EntityState{
		Glyph:     e.Glyph,
		Pos:       e.Pos,
		Facing:    e.Facing,
		Health:    cur,
		MaxHealth: maxHP,
		Weapon:    *e.Weapon,
	}
}

func (s EntityState) restore(weapons map[entity.Weapon]*entity.Weapon) entity.Entity {
	w, ok := weapons[s.Weapon]
	if !ok {
		w = new(entity.Weapon)
		*w = s.Weapon
		weapons[s.Weapon] = w
	}
	e := entity.NewEntity(s.Glyph, s.MaxHealth, s.Pos, s.Facing, w)
	e.SetHealth(s.Health, s.MaxHealth)
	return e
}

// Snapshot captures the grid.
func (g *Grid) Snapshot() Snapshot {
	tiles := make([][]Tile, len(g.tiles))
	for y, row := range g.tiles {
		tiles[y] = append([]Tile(nil), row...)
	}

	mobs := make([]MobState, 0, len(g.mobs))
	for _, id := range g.MobIDs() {
		m := g.mobs[id]
		mobs = append(mobs, MobState{
			EntityState: captureEntity(&m.Entity),
			ID:          m.ID,
			Kind:        m.Kind,
			Name:        m.Name,
			Color:       m.Color,
		})
	}

	return Snapshot{
		Level:        g.level,
		Tiles:        tiles,
		Door:         g.door,
		Player:       captureEntity(&g.player.Entity),
		Mobs:         mobs,
		Hearts:       g.Hearts(),
		CurrentEnemy: g.currentEnemy,
	}
}

// Restore rebuilds a grid from a snapshot. Entities that compare equal on
// their weapon stats share one weapon instance again. The highest mob ID is
// returned so the caller can advance its ID sequence past it.
func Restore(s Snapshot) (*Grid, int, error) {
	if len(s.Tiles) == 0 || len(s.Tiles[0]) == 0 {
		return nil, 0, fmt.Errorf("%w: empty tiles", ErrBadSnapshot)
	}
	width, height := len(s.Tiles[0]), len(s.Tiles)
	for y, row := range s.Tiles {
		if len(row) != width {
			return nil, 0, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrBadSnapshot, y, len(row), width)
		}
	}
	inBounds := func(p geom.Point) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
	}
	if s.Level < 0 {
		return nil, 0, fmt.Errorf("%w: negative level %d", ErrBadSnapshot, s.Level)
	}
	if !inBounds(s.Door) || !inBounds(s.Player.Pos) {
		return nil, 0, fmt.Errorf("%w: door or player outside grid", ErrBadSnapshot)
	}

	weapons := make(map[entity.Weapon]*entity.Weapon)
	player := &entity.Player{Entity: s.Player.restore(weapons)}

	maxID := 0
	mobs := make(map[int]*entity.Mob, len(s.Mobs))
	for _, ms := range s.Mobs {
		if ms.ID < FirstMobID || !inBounds(ms.Pos) {
			return nil, 0, fmt.Errorf("%w: mob %d", ErrBadSnapshot, ms.ID)
		}
		if _, dup := mobs[ms.ID]; dup {
			return nil, 0, fmt.Errorf("%w: duplicate mob %d", ErrBadSnapshot, ms.ID)
		}
		mobs[ms.ID] = &entity.Mob{
			Entity: ms.restore(weapons),
			ID:     ms.ID,
			Kind:   ms.Kind,
			Name:   ms.Name,
			Color:  ms.Color,
		}
		maxID = max(maxID, ms.ID)
	}

	hearts := mapset.New[geom.Point]()
	for _, h := range s.Hearts {
		if !inBounds(h) {
			return nil, 0, fmt.Errorf("%w: heart at %v", ErrBadSnapshot, h)
		}
		hearts.Put(h)
	}

	tiles := make([][]Tile, height)
	for y, row := range s.Tiles {
		tiles[y] = append([]Tile(nil), row...)
	}

	g := NewGrid(tiles, player, mobs, hearts, s.Door, s.Level)
	if _, ok := mobs[s.CurrentEnemy]; ok {
		g.currentEnemy = s.CurrentEnemy
	}
	return g, maxID, nil
}
