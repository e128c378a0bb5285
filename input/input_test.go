package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func runeEvent(r rune) tcell.Event {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func keyEvent(k tcell.Key) tcell.Event {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestMap(t *testing.T) {
	tests := []struct {
		name string
		ev   tcell.Event
		want Action
	}{
		{"left arrow", keyEvent(tcell.KeyLeft), ActionMoveLeft},
		{"right arrow", keyEvent(tcell.KeyRight), ActionMoveRight},
		{"escape", keyEvent(tcell.KeyEscape), ActionQuit},
		{"ctrl-c", keyEvent(tcell.KeyCtrlC), ActionQuit},
		{"vi left", runeEvent('h'), ActionMoveLeft},
		{"vi right", runeEvent('l'), ActionMoveRight},
		{"wasd left", runeEvent('a'), ActionMoveLeft},
		{"wasd right", runeEvent('d'), ActionMoveRight},
		{"space launches", runeEvent(' '), ActionLaunch},
		{"pause", runeEvent('p'), ActionPause},
		{"mute", runeEvent('m'), ActionMute},
		{"quit", runeEvent('q'), ActionQuit},
		{"unbound rune", runeEvent('z'), ActionNone},
		{"non-key event", tcell.NewEventResize(80, 24), ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Map(tt.ev); got != tt.want {
				t.Errorf("Map() = %v, want %v", got, tt.want)
			}
		})
	}
}
