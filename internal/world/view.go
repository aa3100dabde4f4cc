package world

import "github.com/samdwyer/dungeoncrawler/internal/geom"

// Window is the visible sub-rectangle of the grid.
type Window struct {
	Left, Top     int
	Width, Height int
}

// CellKind classifies a rendered cell so the renderer can style it.
type CellKind uint8

const (
	KindWall CellKind = iota
	KindFloor
	KindDoor
	KindHeart
	KindPlayer
	KindWeapon
	KindMob
)

// Cell is one rendered character.
type Cell struct {
	Glyph rune
	Kind  CellKind
	Color string // Hex color for mobs, empty otherwise
}

// EnemyStatus describes the engaged enemy for the HUD.
type EnemyStatus struct {
	Glyph     rune
	Name      string
	Color     string
	Health    int
	MaxHealth int
}

// View is everything the renderer needs for one frame.
type View struct {
	Cells     [][]Cell // FOV rows, top to bottom
	Window    Window
	Health    int
	MaxHealth int
	Enemy     *EnemyStatus // nil when no enemy is engaged
	Level     int          // Zero-based
	Attacking bool
}

// Glyph constants for the static tiles and pickups.
const (
	GlyphWall      = '#'
	GlyphFloor     = '.'
	GlyphDoorLeft  = '/'
	GlyphDoorRight = '\\'
	GlyphHeart     = '♥'
)

// FOV returns a FOVWidth x FOVHeight window centered on the player and pinned
// flush to any grid edge it would otherwise cross.
func (g *Grid) FOV() Window {
	w := min(FOVWidth, g.width)
	h := min(FOVHeight, g.height)
	p := g.player.Pos

	return Window{
		Left:   clamp(p.X-w/2, 0, g.width-w),
		Top:    clamp(p.Y-h/2, 0, g.height-h),
		Width:  w,
		Height: h,
	}
}

// Codes returns a copy of the full tile layout with the player, mobs, hearts
// and (while attacking) the weapon tip overlaid as numeric codes.
// Later overlays win when positions coincide.
func (g *Grid) Codes() [][]int {
	codes := make([][]int, g.height)
	for y, row := range g.tiles {
		codes[y] = make([]int, g.width)
		for x, t := range row {
			codes[y][x] = int(t)
		}
	}

	g.mustInBounds(g.player.Pos, "player")
	codes[g.player.Pos.Y][g.player.Pos.X] = CodePlayer

	for _, id := range g.MobIDs() {
		m := g.mobs[id]
		g.mustInBounds(m.Pos, "mob")
		codes[m.Pos.Y][m.Pos.X] = id
	}

	g.hearts.Each(func(p geom.Point) {
		codes[p.Y][p.X] = CodeHeart
	})

	if g.player.IsAttacking() {
		if tip := g.player.WeaponPos(); g.InBounds(tip) {
			codes[tip.Y][tip.X] = CodeWeapon
		}
	}
	return codes
}

// cellFor maps an overlay code to its display cell. Mob codes resolve
// against the live mob collection.
func (g *Grid) cellFor(code int) Cell {
	switch code {
	case CodeHeart:
		return Cell{Glyph: GlyphHeart, Kind: KindHeart}
	case int(TileWall):
		return Cell{Glyph: GlyphWall, Kind: KindWall}
	case int(TileFloor):
		return Cell{Glyph: GlyphFloor, Kind: KindFloor}
	case int(TileDoorLeft):
		return Cell{Glyph: GlyphDoorLeft, Kind: KindDoor}
	case int(TileDoorRight):
		return Cell{Glyph: GlyphDoorRight, Kind: KindDoor}
	case CodePlayer:
		return Cell{Glyph: g.player.Glyph, Kind: KindPlayer}
	case CodeWeapon:
		return Cell{Glyph: g.player.WeaponGlyph(), Kind: KindWeapon}
	}
	if m, ok := g.mobs[code]; ok {
		return Cell{Glyph: m.Glyph, Kind: KindMob, Color: m.Color}
	}
	return Cell{Glyph: '?', Kind: KindWall}
}

// Render builds the frame for the current state without mutating it.
func (g *Grid) Render() View {
	codes := g.Codes()
	win := g.FOV()

	cells := make([][]Cell, win.Height)
	for y := range cells {
		row := make([]Cell, win.Width)
		for x := range row {
			row[x] = g.cellFor(codes[win.Top+y][win.Left+x])
		}
		cells[y] = row
	}

	health, maxHealth := g.player.Health()
	v := View{
		Cells:     cells,
		Window:    win,
		Health:    health,
		MaxHealth: maxHealth,
		Level:     g.level,
		Attacking: g.player.IsAttacking(),
	}
	if m, ok := g.CurrentEnemy(); ok {
		cur, maxHP := m.Health()
		v.Enemy = &EnemyStatus{
			Glyph:     m.Glyph,
			Name:      m.Name,
			Color:     m.Color,
			Health:    cur,
			MaxHealth: maxHP,
		}
	}
	return v
}

// String renders the FOV as plain text, one line per row.
func (v View) String() string {
	buf := make([]rune, 0, (v.Window.Width+1)*v.Window.Height)
	for _, row := range v.Cells {
		for _, c := range row {
			buf = append(buf, c.Glyph)
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
