package game

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/samdwyer/dungeoncrawler/internal/save"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible level generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Tick is the interval between mob updates.
	Tick time.Duration

	// SaveDir is the directory holding save slots.
	SaveDir string
	// SaveSlot is the slot written by the save key and read on resume (1..3).
	SaveSlot int
	// Resume loads SaveSlot at startup when it holds a game.
	Resume bool

	// LogFile receives the structured log; the terminal belongs to the UI.
	LogFile string
}

// Defaults used when the environment does not override them.
const (
	DefaultTick     = 500 * time.Millisecond
	DefaultSaveDir  = "save_data"
	DefaultSaveSlot = 1
	DefaultLogFile  = "dungeoncrawler.log"
)

// DefaultConfig returns the configuration used without any environment.
func DefaultConfig() Config {
	return Config{
		Tick:     DefaultTick,
		SaveDir:  DefaultSaveDir,
		SaveSlot: DefaultSaveSlot,
		LogFile:  DefaultLogFile,
	}
}

// LoadConfig builds a Config from DUNGEON_* environment variables and LOG_FILE.
func LoadConfig() (Config, error) {
	return configFrom(os.LookupEnv)
}

func configFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookup("DUNGEON_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("DUNGEON_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if v, ok := lookup("DUNGEON_TICK"); ok && v != "" {
		tick, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("DUNGEON_TICK: %w", err)
		}
		if tick <= 0 {
			return cfg, fmt.Errorf("DUNGEON_TICK: must be positive, got %v", tick)
		}
		cfg.Tick = tick
	}
	if v, ok := lookup("DUNGEON_SAVE_DIR"); ok && v != "" {
		cfg.SaveDir = v
	}
	if v, ok := lookup("DUNGEON_SAVE_SLOT"); ok && v != "" {
		slot, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("DUNGEON_SAVE_SLOT: %w", err)
		}
		if slot < save.FirstSlot || slot > save.LastSlot {
			return cfg, fmt.Errorf("DUNGEON_SAVE_SLOT: must be in %d..%d, got %d", save.FirstSlot, save.LastSlot, slot)
		}
		cfg.SaveSlot = slot
	}
	if v, ok := lookup("DUNGEON_LOAD"); ok && v != "" {
		resume, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("DUNGEON_LOAD: %w", err)
		}
		cfg.Resume = resume
	}
	if v, ok := lookup("LOG_FILE"); ok && v != "" {
		cfg.LogFile = v
	}
	return cfg, nil
}
