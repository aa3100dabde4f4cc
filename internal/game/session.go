package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/geom"
	"github.com/samdwyer/dungeoncrawler/internal/logger"
	"github.com/samdwyer/dungeoncrawler/internal/save"
	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
	"github.com/samdwyer/dungeoncrawler/internal/world"
)

// Session owns the live grid. Input handlers, the tick loop and deferred
// attack clears all go through its mutex, so each call applies fully or not
// at all.
type Session struct {
	mu        deadlock.Mutex
	id        uuid.UUID
	gen       *world.Generator
	grid      *world.Grid
	state     State
	scheduler Scheduler
	onChange  func()
	log       *logrus.Entry
}

// NewSession generates level 0 with a fresh player.
func NewSession(ctx context.Context, gen *world.Generator, scheduler Scheduler) (*Session, error) {
	return startSession(ctx, uuid.New(), gen, scheduler)
}

func startSession(ctx context.Context, id uuid.UUID, gen *world.Generator, scheduler Scheduler) (*Session, error) {
	s := newSession(id, gen, scheduler)
	grid, err := gen.Generate(ctx, 0, nil)
	if err != nil {
		return nil, err
	}
	s.grid = grid
	s.log.WithField("depth", 0).Info("Session started")
	return s, nil
}

// ResumeSession continues from a saved grid. The generator's ID sequence is
// moved past every restored mob so later levels never reuse an ID.
func ResumeSession(gen *world.Generator, snap world.Snapshot, scheduler Scheduler) (*Session, error) {
	return resumeSession(uuid.New(), gen, snap, scheduler)
}

func resumeSession(id uuid.UUID, gen *world.Generator, snap world.Snapshot, scheduler Scheduler) (*Session, error) {
	grid, maxID, err := world.Restore(snap)
	if err != nil {
		return nil, err
	}
	gen.IDs().Advance(maxID)

	s := newSession(id, gen, scheduler)
	s.grid = grid
	if !grid.PlayerAlive() {
		s.state = StateDead
	}
	s.log.WithField("depth", grid.Level()).Info("Session resumed")
	return s, nil
}

func newSession(id uuid.UUID, gen *world.Generator, scheduler Scheduler) *Session {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Session{
		id:        id,
		gen:       gen,
		state:     StatePlaying,
		scheduler: scheduler,
		log:       logger.Component("session").WithField("session", id.String()),
	}
}

// Open builds the session identified by id. It resumes cfg.SaveSlot when
// cfg.Resume is set and the slot holds a game, and starts at level 0 otherwise.
func Open(ctx context.Context, id uuid.UUID, cfg Config, catalog *gamedata.Catalog, store *save.Store) (*Session, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen, err := world.NewGenerator(world.DefaultLayout(), rand.New(rand.NewSource(seed)), nil, catalog)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	log := logger.Component("session").WithField("seed", seed)

	if cfg.Resume {
		rec, err := store.Load(cfg.SaveSlot)
		switch {
		case err == nil:
			s, err := resumeSession(id, gen, rec.Grid, nil)
			if err != nil {
				return nil, fmt.Errorf("resume slot %d: %w", cfg.SaveSlot, err)
			}
			return s, nil
		case errors.Is(err, save.ErrSlotEmpty):
			log.WithFields(logrus.Fields{
				"slot":     cfg.SaveSlot,
				"occupied": store.Occupied(),
			}).Info("Save slot empty, starting a new game")
		default:
			return nil, err
		}
	}

	return startSession(ctx, id, gen, nil)
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// OnChange registers f to be called, outside the lock, whenever a background
// activity (tick or attack clear) may have changed the view.
func (s *Session) OnChange(f func()) {
	s.mu.Lock()
	s.onChange = f
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	f := s.onChange
	s.mu.Unlock()
	if f != nil {
		f()
	}
}

// MoveResult reports the effect of a player move.
type MoveResult struct {
	Moved    bool // The player changed tile
	NewLevel bool // The move reached the door and a new level was generated
}

// Move steps the player. A move that ends at the door generates the next
// level, carrying the player over.
func (s *Session) Move(ctx context.Context, d geom.Direction) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MoveResult
	if s.state != StatePlaying {
		return res, nil
	}
	res.Moved = s.grid.MovePlayer(d)
	if !res.Moved || !s.grid.AtDoor() {
		return res, nil
	}

	if err := s.transition(ctx); err != nil {
		return res, err
	}
	res.NewLevel = true
	return res, nil
}

// transition replaces the grid with the next level. Callers hold s.mu.
func (s *Session) transition(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "session.transition")
	defer span.End()

	from := s.grid.Level()
	span.SetAttributes(
		attribute.String("session.id", s.id.String()),
		attribute.Int("level.from", from),
		attribute.Int("level.to", from+1),
	)

	grid, err := s.gen.Generate(ctx, from+1, s.grid.Player())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.WithError(err).WithField("depth", from+1).Error("Level transition failed")
		return fmt.Errorf("enter level %d: %w", from+1, err)
	}
	s.grid = grid

	cur, maxHP := grid.PlayerHealth()
	s.log.WithFields(logrus.Fields{
		"depth":  from + 1,
		"health": fmt.Sprintf("%d/%d", cur, maxHP),
		"mobs":   grid.MobCount(),
	}).Info("Entered new level")
	return nil
}

// Tick runs one mob update pass.
func (s *Session) Tick(ctx context.Context) world.UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return world.UpdateResult{}
	}

	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "grid.update")
	defer span.End()

	res := s.grid.Update()
	cur, _ := s.grid.PlayerHealth()
	span.SetAttributes(
		attribute.Int("level", s.grid.Level()),
		attribute.Int("mobs", s.grid.MobCount()),
		attribute.Int("culled", res.Culled),
		attribute.Int("moved", res.Moved),
		attribute.Int("hits", res.Hits),
		attribute.Int("player.health", cur),
	)

	if res.Culled != 0 {
		s.log.WithField("mob", res.Culled).Debug("Mob removed")
	}
	if res.Hits > 0 {
		s.log.WithFields(logrus.Fields{"hits": res.Hits, "damage": res.DamageTaken, "health": cur}).Debug("Player hit")
	}
	if !s.grid.PlayerAlive() {
		s.state = StateDead
		span.SetAttributes(attribute.Bool("player.dead", true))
		s.log.WithField("depth", s.grid.Level()).Info("Player died")
	}
	return res
}

// Run ticks every interval until ctx is cancelled.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
			s.notify()
		}
	}
}

// State returns the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current frame.
func (s *Session) View() world.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Render()
}

// TakeDirty reports whether the view changed since the last call, and clears the flag.
func (s *Session) TakeDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.TakeDirty()
}

// MarkDirty forces the next TakeDirty to report a change.
func (s *Session) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.MarkDirty()
}

// PlayerHealth returns the player's current and maximum health.
func (s *Session) PlayerHealth() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.PlayerHealth()
}

// CurrentEnemy returns the engaged mob's glyph and health pair.
func (s *Session) CurrentEnemy() (glyph rune, health, maxHealth int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.grid.CurrentEnemy()
	if !ok {
		return 0, 0, 0, false
	}
	health, maxHealth = m.Health()
	return m.Glyph, health, maxHealth, true
}

// Level returns the zero-based level number.
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Level()
}

// AtDoor reports whether the player stands at the door.
func (s *Session) AtDoor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.AtDoor()
}

// Snapshot captures the current grid.
func (s *Session) Snapshot() world.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Snapshot()
}

// Save writes the current grid to slot.
func (s *Session) Save(ctx context.Context, store *save.Store, slot int) error {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "session.save")
	defer span.End()

	snap := s.Snapshot()
	span.SetAttributes(
		attribute.String("session.id", s.id.String()),
		attribute.Int("save.slot", slot),
		attribute.Int("level", snap.Level),
	)
	if err := store.Save(slot, s.id, snap); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
