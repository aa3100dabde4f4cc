package world

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeoncrawler/internal/entity"
	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/geom"
	"github.com/samdwyer/dungeoncrawler/internal/logger"
	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
)

// DefaultMaxAttempts bounds how many full layout passes Generate tries
// before giving up with ErrNoRooms.
const DefaultMaxAttempts = 32

// Generator builds populated levels. It owns the random source and the mob
// ID sequence, so one Generator per session keeps IDs unique across levels.
type Generator struct {
	layout      Layout
	rng         *rand.Rand
	ids         *entity.Sequence
	catalog     *gamedata.Catalog
	weapons     map[string]*entity.Weapon
	maxAttempts uint
	log         *logrus.Entry
}

// NewGenerator validates the layout and returns a generator.
// ids may be nil, in which case a fresh sequence starting at FirstMobID is used.
func NewGenerator(layout Layout, rng *rand.Rand, ids *entity.Sequence, catalog *gamedata.Catalog) (*Generator, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if ids == nil {
		ids = entity.NewSequence(FirstMobID)
	}
	if ids.Peek() < FirstMobID {
		return nil, fmt.Errorf("%w: mob ids must start at %d, got %d", ErrInvalidOptions, FirstMobID, ids.Peek())
	}
	if catalog == nil || catalog.Weapons.Starter() == nil {
		return nil, fmt.Errorf("%w: catalog without starter weapon", ErrInvalidOptions)
	}

	return &Generator{
		layout:      layout,
		rng:         rng,
		ids:         ids,
		catalog:     catalog,
		weapons:     make(map[string]*entity.Weapon),
		maxAttempts: DefaultMaxAttempts,
		log:         logger.Component("generator"),
	}, nil
}

// SetMaxAttempts changes the number of layout passes tried per level.
func (g *Generator) SetMaxAttempts(n uint) {
	if n > 0 {
		g.maxAttempts = n
	}
}

// IDs returns the mob ID sequence.
func (g *Generator) IDs() *entity.Sequence { return g.ids }

// Generate builds level number level. A non-nil player is carried over and
// moved to the new spawn point; otherwise a fresh player is created.
func (g *Generator) Generate(ctx context.Context, level int, player *entity.Player) (*Grid, error) {
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "level.generate")
	defer span.End()

	if level < 0 {
		err := fmt.Errorf("%w: negative level %d", ErrInvalidOptions, level)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	startTime := time.Now()
	attempts := 0
	d, err := backoff.Retry(ctx,
		func() (*Dungeon, error) {
			attempts++
			d := NewDungeon(g.layout, g.rng)
			if err := d.Build(); err != nil {
				return nil, err
			}
			return d, nil
		},
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(g.maxAttempts),
		backoff.WithNotify(func(err error, _ time.Duration) {
			g.log.WithError(err).WithField("depth", level).Warn("Layout pass failed, retrying")
		}),
	)
	if err != nil {
		err = fmt.Errorf("generate level %d after %d attempts: %w", level, attempts, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	mobs := g.placeMobs(d, level)
	hearts := g.placeHearts(d, level)

	spawn := d.Spawn()
	if player == nil {
		player = entity.NewPlayer(spawn, g.weapon(g.catalog.Weapons.Starter()))
	} else {
		player.Respawn(spawn)
	}

	grid := NewGrid(d.Tiles, player, mobs, hearts, d.Door, level)

	span.SetAttributes(
		attribute.Int("level", level),
		attribute.Int("level.width", d.Width),
		attribute.Int("level.height", d.Height),
		attribute.Int("level.room_count", len(d.Rooms)),
		attribute.Int("level.mob_count", len(mobs)),
		attribute.Int("level.heart_count", hearts.Size()),
		attribute.Int("level.attempts", attempts),
		attribute.Int64("level.generation_ms", time.Since(startTime).Milliseconds()),
	)
	g.log.WithFields(logrus.Fields{
		"depth":    level,
		"rooms":    len(d.Rooms),
		"mobs":     len(mobs),
		"hearts":   hearts.Size(),
		"attempts": attempts,
		"spawn":    spawn,
		"door":     d.Door,
	}).Info("Level generated")

	return grid, nil
}

// placeMobs fills every room but the spawn room (the last one) with mobs.
func (g *Generator) placeMobs(d *Dungeon, level int) map[int]*entity.Mob {
	mobs := make(map[int]*entity.Mob)
	for _, room := range d.Rooms[:len(d.Rooms)-1] {
		for n := mobCount(g.rng, level); n > 0; n-- {
			def := g.catalog.Mobs.SpawnRandom(g.rng)
			if def == nil {
				return mobs
			}
			weapon := g.weapon(g.catalog.Weapons.GetByID(def.Weapon))
			m := entity.NewMobFromDef(g.ids.Next(), def, weapon, d.RandomPointInRoom(room))
			mobs[m.ID] = m
		}
	}
	return mobs
}

// placeHearts scatters hearts over every room, spawn included.
func (g *Generator) placeHearts(d *Dungeon, level int) mapset.Set[geom.Point] {
	hearts := mapset.New[geom.Point]()
	for _, room := range d.Rooms {
		for n := heartCount(g.rng, level); n > 0; n-- {
			hearts.Put(d.RandomPointInRoom(room))
		}
	}
	return hearts
}

// weapon returns the shared weapon instance for def.
func (g *Generator) weapon(def *gamedata.WeaponDef) *entity.Weapon {
	if w, ok := g.weapons[def.ID]; ok {
		return w
	}
	w := entity.NewWeaponFromDef(def)
	g.weapons[def.ID] = w
	return w
}

// mobCount draws from [1, round(sqrt((level+1)*2.5))), never less than 1.
func mobCount(rng *rand.Rand, level int) int {
	upper := int(math.RoundToEven(math.Sqrt(float64(level+1) * 2.5)))
	if upper <= 2 {
		return 1
	}
	return 1 + rng.Intn(upper-1)
}

// heartCount draws from [0, 2+floor(sqrt(level))).
func heartCount(rng *rand.Rand, level int) int {
	return rng.Intn(2 + int(math.Sqrt(float64(level))))
}
