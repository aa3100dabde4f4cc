package gamedata

import "fmt"

// GlyphSet holds one display string per facing.
type GlyphSet struct {
	Left  string `json:"left"`
	Up    string `json:"up"`
	Right string `json:"right"`
	Down  string `json:"down"`
}

// WeaponDef defines a weapon loaded from JSON.
type WeaponDef struct {
	ID      string   `json:"id"`      // Unique identifier (e.g., "sword")
	Name    string   `json:"name"`    // Display name
	Attack  int      `json:"attack"`  // Damage per hit
	Cadence float64  `json:"cadence"` // Seconds the attacking flag stays raised
	Starter bool     `json:"starter"` // Handed to a fresh player
	Glyphs  GlyphSet `json:"glyphs"`
}

// Validate checks that the definition can build a usable weapon.
func (w *WeaponDef) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("weapon without id")
	}
	if w.Attack <= 0 {
		return fmt.Errorf("weapon %s: attack must be positive, got %d", w.ID, w.Attack)
	}
	if w.Cadence <= 0 {
		return fmt.Errorf("weapon %s: cadence must be positive, got %v", w.ID, w.Cadence)
	}
	for _, g := range []string{w.Glyphs.Left, w.Glyphs.Up, w.Glyphs.Right, w.Glyphs.Down} {
		if g == "" {
			return fmt.Errorf("weapon %s: missing glyph", w.ID)
		}
	}
	return nil
}

// WeaponsFile represents the structure of weapons.json.
type WeaponsFile struct {
	Weapons []WeaponDef `json:"weapons"`
}

// LoadWeapons loads weapon definitions from the embedded weapons.json file.
func LoadWeapons() ([]WeaponDef, error) {
	file, err := Load[WeaponsFile]("weapons.json")
	if err != nil {
		return nil, err
	}
	for i := range file.Weapons {
		if err := file.Weapons[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Weapons, nil
}
