package world

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

func TestSnapshotRestore(t *testing.T) {
	g, err := newTestGenerator(t, 11).Generate(context.Background(), 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	g.Player().TakeDamage(3)

	// Snapshots must survive an opaque encoder.
	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	restored, maxID, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if restored.Render().String() != g.Render().String() {
		t.Error("restored grid renders differently")
	}
	if restored.Level() != g.Level() || restored.Door() != g.Door() {
		t.Errorf("level/door = %d/%v, want %d/%v", restored.Level(), restored.Door(), g.Level(), g.Door())
	}
	if cur, maxHP := restored.PlayerHealth(); cur != 17 || maxHP != 20 {
		t.Errorf("PlayerHealth() = (%d,%d), want (17,20)", cur, maxHP)
	}
	if restored.MobCount() != g.MobCount() || restored.HeartCount() != g.HeartCount() {
		t.Errorf("population = %d mobs %d hearts, want %d mobs %d hearts",
			restored.MobCount(), restored.HeartCount(), g.MobCount(), g.HeartCount())
	}
	ids := g.MobIDs()
	if len(ids) > 0 && maxID != ids[len(ids)-1] {
		t.Errorf("maxID = %d, want %d", maxID, ids[len(ids)-1])
	}
	if restored.Player().Weapon.Glyph(geom.Up) != '|' {
		t.Errorf("restored weapon glyph = %q", restored.Player().Weapon.Glyph(geom.Up))
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(2, 2))
	snap := g.Snapshot()

	snap.Tiles[2][3] = TileWall
	if !g.IsPassable(geom.Pt(3, 2)) {
		t.Error("editing the snapshot changed the grid")
	}
}

func TestRestoreSharesWeapons(t *testing.T) {
	g := newTestGrid(20, 20, geom.Pt(2, 2))
	w := testFist()
	addMob(g, 6, geom.Pt(10, 10)).Weapon = w
	addMob(g, 7, geom.Pt(12, 12)).Weapon = w

	restored, _, err := Restore(g.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	a, _ := restored.Mob(6)
	b, _ := restored.Mob(7)
	if a.Weapon != b.Weapon {
		t.Error("equal weapons were not shared after restore")
	}
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	valid := func() Snapshot {
		g := newTestGrid(10, 10, geom.Pt(2, 2))
		addMob(g, FirstMobID, geom.Pt(5, 5))
		return g.Snapshot()
	}
	tests := []struct {
		name   string
		modify func(*Snapshot)
	}{
		{"no tiles", func(s *Snapshot) { s.Tiles = nil }},
		{"ragged rows", func(s *Snapshot) { s.Tiles[3] = s.Tiles[3][:4] }},
		{"player outside", func(s *Snapshot) { s.Player.Pos = geom.Pt(-1, 0) }},
		{"door outside", func(s *Snapshot) { s.Door = geom.Pt(0, 10) }},
		{"reserved mob id", func(s *Snapshot) { s.Mobs[0].ID = CodePlayer }},
		{"heart outside", func(s *Snapshot) { s.Hearts = append(s.Hearts, geom.Pt(10, 10)) }},
		{"negative level", func(s *Snapshot) { s.Level = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.modify(&s)
			if _, _, err := Restore(s); !errors.Is(err, ErrBadSnapshot) {
				t.Errorf("Restore() error = %v, want ErrBadSnapshot", err)
			}
		})
	}
}
