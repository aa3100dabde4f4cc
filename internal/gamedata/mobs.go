package gamedata

import "fmt"

// MobDef defines a hostile creature loaded from JSON.
type MobDef struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "rat")
	Name        string `json:"name"`        // Display name
	Glyph       string `json:"glyph"`       // Single character for rendering
	Color       string `json:"color"`       // Hex color code
	Health      int    `json:"health"`      // Starting and maximum health
	Weapon      string `json:"weapon"`      // Weapon ID
	SpawnWeight int    `json:"spawnWeight"` // Relative spawn frequency
}

// GlyphRune returns the glyph as a rune for rendering.
func (m *MobDef) GlyphRune() rune {
	for _, r := range m.Glyph {
		return r
	}
	return '?'
}

// MobsFile represents the structure of mobs.json.
type MobsFile struct {
	Mobs []MobDef `json:"mobs"`
}

// LoadMobs loads mob definitions from the embedded mobs.json file.
func LoadMobs() ([]MobDef, error) {
	file, err := Load[MobsFile]("mobs.json")
	if err != nil {
		return nil, err
	}
	for _, m := range file.Mobs {
		if m.Health <= 0 {
			return nil, fmt.Errorf("mob %s: health must be positive, got %d", m.ID, m.Health)
		}
	}
	return file.Mobs, nil
}
