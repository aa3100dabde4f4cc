// Package game drives a dungeon crawler session: it serializes input, ticks
// and deferred callbacks onto one grid and maps terminal keys to actions.
package game

// State represents the current session state.
type State int

const (
	// StatePlaying is the normal state: input and ticks reach the grid.
	StatePlaying State = iota
	// StateDead is entered when the player's health drops to zero.
	// Input and ticks are ignored from then on.
	StateDead
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}
