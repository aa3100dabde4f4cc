// Package save persists game snapshots in numbered slots on disk.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/dungeoncrawler/internal/logger"
	"github.com/samdwyer/dungeoncrawler/internal/world"
)

// Slot range.
const (
	FirstSlot = 1
	LastSlot  = 3
)

// formatVersion is bumped whenever Record changes incompatibly.
const formatVersion = 1

var (
	// ErrBadSlot is returned for slot numbers outside FirstSlot..LastSlot.
	ErrBadSlot = errors.New("invalid save slot")
	// ErrSlotEmpty is returned when loading a slot that holds no game.
	ErrSlotEmpty = errors.New("save slot is empty")
)

// Record is one saved game.
type Record struct {
	Version   int            `json:"version"`
	SessionID uuid.UUID      `json:"sessionId"`
	SavedAt   time.Time      `json:"savedAt"`
	Grid      world.Snapshot `json:"grid"`
}

// Store reads and writes save slots under a directory.
type Store struct {
	dir string
	log *logrus.Entry
}

// NewStore returns a store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		log: logger.Component("save").WithField("dir", dir),
	}
}

func (s *Store) path(slot int) (string, error) {
	if slot < FirstSlot || slot > LastSlot {
		return "", fmt.Errorf("%w: %d (want %d..%d)", ErrBadSlot, slot, FirstSlot, LastSlot)
	}
	return filepath.Join(s.dir, fmt.Sprintf("slot%d.json", slot)), nil
}

// Save writes snap to slot, replacing whatever the slot held.
// The file is written to a temporary name first so a crash never leaves a
// half-written slot behind.
func (s *Store) Save(slot int, sessionID uuid.UUID, snap world.Snapshot) error {
	path, err := s.path(slot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	data, err := json.Marshal(Record{
		Version:   formatVersion,
		SessionID: sessionID,
		SavedAt:   time.Now().UTC(),
		Grid:      snap,
	})
	if err != nil {
		return fmt.Errorf("encode slot %d: %w", slot, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write slot %d: %w", slot, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write slot %d: %w", slot, err)
	}

	s.log.WithFields(logrus.Fields{
		"slot":    slot,
		"depth":   snap.Level,
		"session": sessionID.String(),
		"bytes":   len(data),
	}).Info("Game saved")
	return nil
}

// Load reads the record in slot. It returns ErrSlotEmpty when nothing was saved there.
func (s *Store) Load(slot int) (Record, error) {
	path, err := s.path(slot)
	if err != nil {
		return Record{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, fmt.Errorf("slot %d: %w", slot, ErrSlotEmpty)
	}
	if err != nil {
		return Record{}, fmt.Errorf("read slot %d: %w", slot, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode slot %d: %w", slot, err)
	}
	if rec.Version != formatVersion {
		return Record{}, fmt.Errorf("slot %d: unsupported save version %d", slot, rec.Version)
	}

	s.log.WithFields(logrus.Fields{
		"slot":    slot,
		"depth":   rec.Grid.Level,
		"session": rec.SessionID.String(),
	}).Info("Game loaded")
	return rec, nil
}

// Occupied returns the slots that currently hold a game, in ascending order.
func (s *Store) Occupied() []int {
	var slots []int
	for slot := FirstSlot; slot <= LastSlot; slot++ {
		path, _ := s.path(slot)
		if _, err := os.Stat(path); err == nil {
			slots = append(slots, slot)
		}
	}
	return slots
}

// Delete empties slot. Deleting an empty slot is not an error.
func (s *Store) Delete(slot int) error {
	path, err := s.path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	return nil
}
