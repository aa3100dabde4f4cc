package game

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

func TestActionForKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Up}},
		{"arrow down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Down}},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Left}},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Right}},
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Up}},
		{"A", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Left}},
		{"s", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Down}},
		{"d", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), Action{Kind: ActionMove, Dir: geom.Right}},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), Action{Kind: ActionAttack}},
		{"p", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), Action{Kind: ActionSave}},
		{"c", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), Action{Kind: ActionDeleteSave}},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), Action{Kind: ActionQuit}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Action{Kind: ActionQuit}},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), Action{Kind: ActionQuit}},
		{"unbound rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), Action{Kind: ActionNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := actionForKey(tt.ev); got != tt.want {
				t.Errorf("actionForKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestActionKindString(t *testing.T) {
	tests := []struct {
		kind     ActionKind
		expected string
	}{
		{ActionNone, "none"},
		{ActionMove, "move"},
		{ActionAttack, "attack"},
		{ActionSave, "save"},
		{ActionDeleteSave, "delete save"},
		{ActionQuit, "quit"},
		{ActionKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("ActionKind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StatePlaying, "playing"},
		{StateDead, "dead"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}
