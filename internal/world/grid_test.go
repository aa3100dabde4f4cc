package world

import (
	"strings"
	"testing"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeoncrawler/internal/entity"
	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

func testSword() *entity.Weapon {
	return &entity.Weapon{Name: "Sword", Attack: 2, Cadence: 500 * time.Millisecond, Glyphs: [4]rune{'-', '|', '-', '|'}}
}

func testFist() *entity.Weapon {
	return &entity.Weapon{Name: "Fist", Attack: 1, Cadence: 500 * time.Millisecond, Glyphs: [4]rune{'<', '^', '>', 'v'}}
}

var ratDef = &gamedata.MobDef{ID: "rat", Name: "Rat", Glyph: "@", Color: "#C08040", Health: 4, Weapon: "fist", SpawnWeight: 100}

// arena returns a w x h layout: a ring of walls around open floor.
func arena(w, h int) [][]Tile {
	tiles := newTiles(w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			tiles[y][x] = TileFloor
		}
	}
	return tiles
}

func newTestGrid(w, h int, playerPos geom.Point) *Grid {
	player := entity.NewPlayer(playerPos, testSword())
	return NewGrid(arena(w, h), player, nil, mapset.New[geom.Point](), geom.Pt(w/2, 0), 0)
}

func addMob(g *Grid, id int, pos geom.Point) *entity.Mob {
	m := entity.NewMobFromDef(id, ratDef, testFist(), pos)
	g.mobs[id] = m
	return m
}

func TestMoveBlockedConvergesFacing(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(1, 1))

	for i := 0; i < 3; i++ {
		if g.MovePlayer(geom.Up) {
			t.Fatalf("MovePlayer(Up) into the border succeeded")
		}
		if got := g.Player().Pos; got != geom.Pt(1, 1) {
			t.Fatalf("position = %v, want (1,1)", got)
		}
		if got := g.Player().Facing; got != geom.Up {
			t.Fatalf("facing = %v, want up", got)
		}
	}

	g.TakeDirty()
	g.MovePlayer(geom.Up)
	if g.TakeDirty() {
		t.Error("blocked move without a facing change should not dirty the grid")
	}
	g.MovePlayer(geom.Left)
	if !g.TakeDirty() {
		t.Error("blocked move that turns the player should dirty the grid")
	}
}

func TestMoveOpen(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(1, 1))
	g.TakeDirty()

	if !g.MovePlayer(geom.Right) {
		t.Fatal("MovePlayer(Right) failed on open floor")
	}
	if got := g.Player().Pos; got != geom.Pt(2, 1) {
		t.Errorf("position = %v, want (2,1)", got)
	}
	if !g.TakeDirty() {
		t.Error("successful move should set the dirty flag")
	}
	if g.TakeDirty() {
		t.Error("TakeDirty should clear the flag")
	}
}

func TestMoveOntoDoor(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(5, 1))
	g.tiles[0][4] = TileDoorLeft
	g.tiles[0][5] = TileDoorRight

	if !g.MovePlayer(geom.Up) {
		t.Fatal("door tiles should be passable")
	}
	if !g.AtDoor() {
		t.Error("AtDoor() = false standing on the door")
	}
}

func TestHeartPickup(t *testing.T) {
	tests := []struct {
		name       string
		damage     int
		wantHealth int
		wantHearts int
	}{
		{"wounded", 5, 16, 0},
		{"one below max", 1, 20, 0},
		{"full health", 0, 20, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(10, 10, geom.Pt(1, 1))
			g.hearts.Put(geom.Pt(2, 1))
			g.Player().TakeDamage(tt.damage)

			g.MovePlayer(geom.Right)

			if cur, _ := g.PlayerHealth(); cur != tt.wantHealth {
				t.Errorf("health = %d, want %d", cur, tt.wantHealth)
			}
			if got := g.HeartCount(); got != tt.wantHearts {
				t.Errorf("HeartCount() = %d, want %d", got, tt.wantHearts)
			}
		})
	}
}

func TestHeartNotPickedUpByMob(t *testing.T) {
	g := newTestGrid(20, 20, geom.Pt(1, 1))
	m := addMob(g, FirstMobID, geom.Pt(10, 10))
	m.TakeDamage(1)
	g.hearts.Put(geom.Pt(9, 10))

	g.Move(&m.Entity, geom.Left)

	if !g.HasHeart(geom.Pt(9, 10)) {
		t.Error("mob consumed a heart")
	}
}

func TestAtDoor(t *testing.T) {
	tests := []struct {
		pos  geom.Point
		want bool
	}{
		{geom.Pt(5, 1), true},
		{geom.Pt(4, 1), true},
		{geom.Pt(6, 1), true},
		{geom.Pt(5, 2), false},
		{geom.Pt(3, 1), false},
	}
	for _, tt := range tests {
		g := newTestGrid(10, 10, tt.pos)
		if got := g.AtDoor(); got != tt.want {
			t.Errorf("AtDoor() at %v = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestAttackWithoutEnemy(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(3, 3))

	res := g.Attack()
	if res.Target != 0 || res.Damage != 0 {
		t.Errorf("Attack() = %+v, want no target", res)
	}
	if !g.Player().IsAttacking() {
		t.Error("Attack() should raise the attacking flag")
	}
	if res.ClearAfter != 500*time.Millisecond {
		t.Errorf("ClearAfter = %v, want 500ms", res.ClearAfter)
	}
}

func TestAttackTokens(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(3, 3))

	first := g.Attack()
	second := g.Attack()

	if g.EndAttack(first.Token) {
		t.Error("stale token cleared the attacking flag")
	}
	if !g.Player().IsAttacking() {
		t.Fatal("attacking flag lowered by a stale token")
	}
	if !g.EndAttack(second.Token) {
		t.Error("latest token did not clear the attacking flag")
	}
	if g.Player().IsAttacking() {
		t.Error("attacking flag still raised")
	}
}

func TestCombatKillsInCeilAttacks(t *testing.T) {
	tests := []struct {
		health, damage, want int
	}{
		{4, 2, 2},
		{5, 2, 3},
		{4, 1, 4},
		{1, 3, 1},
	}
	for _, tt := range tests {
		g := newTestGrid(10, 10, geom.Pt(3, 3))
		g.Player().Weapon = &entity.Weapon{Name: "Test", Attack: tt.damage, Cadence: time.Millisecond}
		m := addMob(g, FirstMobID, geom.Pt(4, 3))
		m.SetHealth(tt.health, tt.health)
		g.currentEnemy = m.ID

		attacks := 0
		for m.IsAlive() {
			res := g.Attack()
			attacks++
			if res.Target != m.ID || res.Damage != tt.damage {
				t.Fatalf("Attack() = %+v, want target %d damage %d", res, m.ID, tt.damage)
			}
			if attacks > tt.health {
				t.Fatal("mob never died")
			}
		}
		if attacks != tt.want {
			t.Errorf("H=%d D=%d: %d attacks, want %d", tt.health, tt.damage, attacks, tt.want)
		}

		res := g.Update()
		if res.Culled != m.ID {
			t.Errorf("Update().Culled = %d, want %d", res.Culled, m.ID)
		}
		if g.MobCount() != 0 {
			t.Errorf("MobCount() = %d after cull, want 0", g.MobCount())
		}
		if _, ok := g.CurrentEnemy(); ok {
			t.Error("current enemy not cleared after its death")
		}
	}
}

func TestUpdateCullsOneMobPerTick(t *testing.T) {
	g := newTestGrid(30, 30, geom.Pt(1, 1))
	addMob(g, 9, geom.Pt(25, 25)).TakeDamage(10)
	addMob(g, 7, geom.Pt(26, 26)).TakeDamage(10)

	if res := g.Update(); res.Culled != 7 {
		t.Errorf("first Update().Culled = %d, want 7", res.Culled)
	}
	if g.MobCount() != 1 {
		t.Fatalf("MobCount() = %d, want 1", g.MobCount())
	}
	if res := g.Update(); res.Culled != 9 {
		t.Errorf("second Update().Culled = %d, want 9", res.Culled)
	}
	if g.MobCount() != 0 {
		t.Errorf("MobCount() = %d, want 0", g.MobCount())
	}
}

func TestDeadMobAwaitingCullDoesNotAct(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(5, 5))
	addMob(g, 7, geom.Pt(1, 8)).TakeDamage(10)
	striker := addMob(g, 9, geom.Pt(6, 5)) // faces the player
	striker.TakeDamage(10)

	res := g.Update()

	if res.Culled != 7 {
		t.Errorf("Culled = %d, want 7", res.Culled)
	}
	if res.Hits != 0 {
		t.Errorf("Hits = %d, want 0", res.Hits)
	}
	if cur, _ := g.PlayerHealth(); cur != entity.PlayerStartHealth {
		t.Errorf("player health = %d, want %d", cur, entity.PlayerStartHealth)
	}
	if _, ok := g.CurrentEnemy(); ok {
		t.Error("dead mob became the current enemy")
	}
}

func TestMobPursuit(t *testing.T) {
	g := newTestGrid(20, 20, geom.Pt(3, 3))
	m := addMob(g, FirstMobID, geom.Pt(10, 10))

	res := g.Update()

	if got := m.Pos; got != geom.Pt(9, 9) {
		t.Errorf("mob position = %v, want (9,9)", got)
	}
	if res.Moved != 2 {
		t.Errorf("Moved = %d, want 2", res.Moved)
	}
	if res.Hits != 0 {
		t.Errorf("Hits = %d, want 0", res.Hits)
	}
}

func TestMobIdleOutOfRange(t *testing.T) {
	g := newTestGrid(60, 60, geom.Pt(2, 2))
	m := addMob(g, FirstMobID, geom.Pt(40, 40))

	g.Update()

	if m.Pos != geom.Pt(40, 40) {
		t.Errorf("idle mob moved to %v", m.Pos)
	}
}

func TestMobStrikesWhenFacing(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(5, 5))
	m := addMob(g, FirstMobID, geom.Pt(6, 5)) // faces left, weapon tip on the player

	res := g.Update()

	if res.Hits != 1 || res.DamageTaken != 1 {
		t.Errorf("Update() = %+v, want one hit for 1", res)
	}
	if cur, _ := g.PlayerHealth(); cur != entity.PlayerStartHealth-1 {
		t.Errorf("player health = %d, want %d", cur, entity.PlayerStartHealth-1)
	}
	if e, ok := g.CurrentEnemy(); !ok || e.ID != m.ID {
		t.Errorf("CurrentEnemy() = %v, %v; want mob %d", e, ok, m.ID)
	}
	if m.Pos != geom.Pt(6, 5) {
		t.Errorf("adjacent mob moved to %v", m.Pos)
	}
}

func TestMobTurnsBeforeStriking(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(5, 5))
	m := addMob(g, FirstMobID, geom.Pt(5, 6)) // below the player, facing left

	res := g.Update()
	if res.Hits != 0 {
		t.Fatalf("mob struck without facing the player")
	}
	if m.Facing != geom.Up {
		t.Errorf("mob facing = %v, want up", m.Facing)
	}

	res = g.Update()
	if res.Hits != 1 {
		t.Errorf("mob did not strike after turning: %+v", res)
	}
}

func TestCurrentEnemyClearedWhenNotAdjacent(t *testing.T) {
	g := newTestGrid(20, 20, geom.Pt(5, 5))
	m := addMob(g, FirstMobID, geom.Pt(9, 5))
	g.currentEnemy = m.ID

	g.Update()

	if _, ok := g.CurrentEnemy(); ok {
		t.Error("current enemy kept while not adjacent")
	}
}

func TestPlayerDeath(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(5, 5))
	addMob(g, FirstMobID, geom.Pt(6, 5))
	g.Player().SetHealth(1, entity.PlayerStartHealth)

	g.Update()

	if g.PlayerAlive() {
		t.Error("PlayerAlive() = true after a lethal hit")
	}
}

func TestFOVClamp(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		player    geom.Point
		wantLeft  int
		wantTop   int
		wantWidth int
		wantHgt   int
	}{
		{"top-left corner", 100, 40, geom.Pt(0, 0), 0, 0, FOVWidth, FOVHeight},
		{"bottom-right corner", 100, 40, geom.Pt(99, 39), 20, 16, FOVWidth, FOVHeight},
		{"centered", 200, 60, geom.Pt(100, 30), 60, 18, FOVWidth, FOVHeight},
		{"grid smaller than window", 10, 10, geom.Pt(5, 5), 0, 0, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(tt.w, tt.h, tt.player)
			win := g.FOV()
			want := Window{Left: tt.wantLeft, Top: tt.wantTop, Width: tt.wantWidth, Height: tt.wantHgt}
			if win != want {
				t.Errorf("FOV() = %+v, want %+v", win, want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(2, 2))
	g.tiles[0][4] = TileDoorLeft
	g.tiles[0][5] = TileDoorRight
	g.hearts.Put(geom.Pt(4, 4))
	addMob(g, FirstMobID, geom.Pt(6, 6))
	g.Attack()
	g.TakeDirty()

	v := g.Render()

	if g.TakeDirty() {
		t.Error("Render() mutated the dirty flag")
	}
	checks := []struct {
		at    geom.Point
		glyph rune
		kind  CellKind
	}{
		{geom.Pt(0, 0), GlyphWall, KindWall},
		{geom.Pt(1, 1), GlyphFloor, KindFloor},
		{geom.Pt(4, 0), GlyphDoorLeft, KindDoor},
		{geom.Pt(5, 0), GlyphDoorRight, KindDoor},
		{geom.Pt(2, 2), entity.PlayerGlyph, KindPlayer},
		{geom.Pt(1, 2), '-', KindWeapon},
		{geom.Pt(4, 4), GlyphHeart, KindHeart},
		{geom.Pt(6, 6), '@', KindMob},
	}
	for _, c := range checks {
		cell := v.Cells[c.at.Y][c.at.X]
		if cell.Glyph != c.glyph || cell.Kind != c.kind {
			t.Errorf("cell %v = %q/%d, want %q/%d", c.at, cell.Glyph, cell.Kind, c.glyph, c.kind)
		}
	}
	if got := v.Cells[6][6].Color; got != ratDef.Color {
		t.Errorf("mob color = %q, want %q", got, ratDef.Color)
	}
	if v.Health != entity.PlayerStartHealth || v.MaxHealth != entity.PlayerStartHealth {
		t.Errorf("view health = %d/%d", v.Health, v.MaxHealth)
	}
	if !v.Attacking {
		t.Error("view should report the attack")
	}
	if v.Enemy != nil {
		t.Errorf("view enemy = %+v, want nil", v.Enemy)
	}

	lines := strings.Split(strings.TrimSuffix(v.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("String() has %d lines, want 10", len(lines))
	}
	if lines[0] != "####/\\####" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[2] != "#-&......#" {
		t.Errorf("player line = %q", lines[2])
	}
}

func TestRenderDropsDeadMobGlyph(t *testing.T) {
	g := newTestGrid(10, 10, geom.Pt(2, 2))
	m := addMob(g, FirstMobID, geom.Pt(6, 6))
	m.TakeDamage(10)

	g.Update()

	if cell := g.Render().Cells[6][6]; cell.Kind != KindFloor {
		t.Errorf("culled mob still rendered: %+v", cell)
	}
}

func TestNewGridPanicsOutOfBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewGrid accepted a player outside the grid")
		}
	}()
	newTestGrid(10, 10, geom.Pt(10, 3))
}
