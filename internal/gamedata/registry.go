package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
)

// MobRegistry holds loaded mob definitions and provides spawning utilities.
type MobRegistry struct {
	mobs        []MobDef
	totalWeight int
}

// NewMobRegistry creates a registry from loaded mob definitions.
func NewMobRegistry(mobs []MobDef) *MobRegistry {
	totalWeight := 0
	for _, m := range mobs {
		totalWeight += m.SpawnWeight
	}
	return &MobRegistry{
		mobs:        mobs,
		totalWeight: totalWeight,
	}
}

// SpawnRandom selects a mob definition using weighted probability.
// Mobs with a higher spawnWeight are more likely to be selected.
func (r *MobRegistry) SpawnRandom(rng *rand.Rand) *MobDef {
	if r.totalWeight <= 0 || len(r.mobs) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.mobs {
		cumulative += r.mobs[i].SpawnWeight
		if roll < cumulative {
			return &r.mobs[i]
		}
	}
	return &r.mobs[0]
}

// GetByID returns the mob definition with the given ID, or nil if not found.
func (r *MobRegistry) GetByID(id string) *MobDef {
	for i := range r.mobs {
		if r.mobs[i].ID == id {
			return &r.mobs[i]
		}
	}
	return nil
}

// Count returns the number of mob kinds in the registry.
func (r *MobRegistry) Count() int {
	return len(r.mobs)
}

// WeaponRegistry holds loaded weapon definitions keyed by ID.
type WeaponRegistry struct {
	weapons map[string]*WeaponDef
	all     []WeaponDef
}

// NewWeaponRegistry creates a registry from loaded weapon definitions.
func NewWeaponRegistry(weapons []WeaponDef) *WeaponRegistry {
	registry := &WeaponRegistry{
		weapons: make(map[string]*WeaponDef),
		all:     weapons,
	}
	for i := range weapons {
		registry.weapons[weapons[i].ID] = &weapons[i]
	}
	return registry
}

// GetByID returns the weapon definition with the given ID, or nil if not found.
func (r *WeaponRegistry) GetByID(id string) *WeaponDef {
	return r.weapons[id]
}

// Starter returns the first weapon flagged as the starting weapon, or nil.
func (r *WeaponRegistry) Starter() *WeaponDef {
	for i := range r.all {
		if r.all[i].Starter {
			return &r.all[i]
		}
	}
	return nil
}

// Count returns the number of weapons in the registry.
func (r *WeaponRegistry) Count() int {
	return len(r.all)
}

// Catalog bundles every registry the level generator draws from.
type Catalog struct {
	Mobs    *MobRegistry
	Weapons *WeaponRegistry
}

// LoadCatalog loads all embedded definitions and checks cross references.
func LoadCatalog() (*Catalog, error) {
	weapons, err := LoadWeapons()
	if err != nil {
		return nil, err
	}
	mobs, err := LoadMobs()
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		Mobs:    NewMobRegistry(mobs),
		Weapons: NewWeaponRegistry(weapons),
	}
	if c.Mobs.Count() == 0 {
		return nil, errors.New("no mobs loaded from mobs.json")
	}
	if c.Weapons.Count() == 0 {
		return nil, errors.New("no weapons loaded from weapons.json")
	}
	if c.Weapons.Starter() == nil {
		return nil, errors.New("weapons.json has no starter weapon")
	}
	for _, m := range mobs {
		if c.Weapons.GetByID(m.Weapon) == nil {
			return nil, fmt.Errorf("mob %s references unknown weapon %q", m.ID, m.Weapon)
		}
	}
	return c, nil
}

// MustLoadCatalog loads the catalog, panicking on error.
// The embedded data ships with the binary, so a failure is a build defect.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}
