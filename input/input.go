// Package input maps terminal key events onto game actions
package input

import "github.com/gdamore/tcell/v2"

// Action is a discrete player intent
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionLaunch
	ActionPause
	ActionMute
	ActionQuit
)

// Map translates one tcell event into an action
func Map(ev tcell.Event) Action {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return ActionNone
	}

	switch key.Key() {
	case tcell.KeyLeft:
		return ActionMoveLeft
	case tcell.KeyRight:
		return ActionMoveRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch key.Rune() {
		case 'a', 'h':
			return ActionMoveLeft
		case 'd', 'l':
			return ActionMoveRight
		case ' ':
			return ActionLaunch
		case 'p':
			return ActionPause
		case 'm':
			return ActionMute
		case 'q':
			return ActionQuit
		}
	}
	return ActionNone
}
