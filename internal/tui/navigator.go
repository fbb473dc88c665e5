package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phrazzld/flashforge/internal/authgate"
)

// navigatorBuffer bounds queued navigations. Gates navigate at most a couple
// of times per user action.
const navigatorBuffer = 16

// Navigator implements authgate.Navigator by queueing routes for the
// Bubbletea loop. It is safe for concurrent use.
type Navigator struct {
	ch chan navigateMsg
}

var _ authgate.Navigator = (*Navigator)(nil)

// NewNavigator creates a Navigator.
func NewNavigator() *Navigator {
	return &Navigator{ch: make(chan navigateMsg, navigatorBuffer)}
}

// Replace implements authgate.Navigator.
func (n *Navigator) Replace(route authgate.Route) {
	n.send(navigateMsg{route: route, replace: true})
}

// Push implements authgate.Navigator.
func (n *Navigator) Push(route authgate.Route) {
	n.send(navigateMsg{route: route})
}

// send drops the oldest queued navigation when the buffer is full; only the
// latest destination matters.
func (n *Navigator) send(msg navigateMsg) {
	for {
		select {
		case n.ch <- msg:
			return
		default:
		}
		select {
		case <-n.ch:
		default:
		}
	}
}

// Next waits for the next navigation.
func (n *Navigator) Next() tea.Cmd {
	return func() tea.Msg {
		return <-n.ch
	}
}

// poll returns a queued navigation without waiting.
func (n *Navigator) poll() (navigateMsg, bool) {
	select {
	case msg := <-n.ch:
		return msg, true
	default:
		return navigateMsg{}, false
	}
}
