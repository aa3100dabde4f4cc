package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeoncrawler/internal/geom"
)

// ActionKind identifies what a key press asks for.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionAttack
	ActionSave
	ActionDeleteSave
	ActionQuit
)

// String returns a human-readable action name.
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionMove:
		return "move"
	case ActionAttack:
		return "attack"
	case ActionSave:
		return "save"
	case ActionDeleteSave:
		return "delete save"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Action is a decoded key press.
type Action struct {
	Kind ActionKind
	Dir  geom.Direction // Set for ActionMove
}

// actionForKey maps a key event to an action: arrows and WASD move,
// space attacks, p saves, c clears the save slot, q, Esc and Ctrl-C quit.
func actionForKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Action{Kind: ActionQuit}
	case tcell.KeyUp:
		return Action{Kind: ActionMove, Dir: geom.Up}
	case tcell.KeyDown:
		return Action{Kind: ActionMove, Dir: geom.Down}
	case tcell.KeyLeft:
		return Action{Kind: ActionMove, Dir: geom.Left}
	case tcell.KeyRight:
		return Action{Kind: ActionMove, Dir: geom.Right}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return Action{Kind: ActionMove, Dir: geom.Up}
		case 's', 'S':
			return Action{Kind: ActionMove, Dir: geom.Down}
		case 'a', 'A':
			return Action{Kind: ActionMove, Dir: geom.Left}
		case 'd', 'D':
			return Action{Kind: ActionMove, Dir: geom.Right}
		case ' ':
			return Action{Kind: ActionAttack}
		case 'p', 'P':
			return Action{Kind: ActionSave}
		case 'c', 'C':
			return Action{Kind: ActionDeleteSave}
		case 'q', 'Q':
			return Action{Kind: ActionQuit}
		}
	}
	return Action{Kind: ActionNone}
}
