package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dimitrije/harbor-teams/internal/teamform"
)

const toastDuration = 4 * time.Second

// Toast is the on-screen rendering of a submission alert
type Toast struct {
	ID       int64
	Alert    teamform.Alert
	Duration time.Duration
}

// alertMsg carries an alert from the submitter into the program
type alertMsg teamform.Alert

// toastTimeoutMsg is sent when a toast expires
type toastTimeoutMsg struct {
	ID int64
}

func expireToast(id int64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastTimeoutMsg{ID: id}
	})
}

// AlertChannel is an alert sink that hands alerts to the running program.
// Alerts arriving while the buffer is full are dropped.
type AlertChannel chan teamform.Alert

func NewAlertChannel() AlertChannel {
	return make(AlertChannel, 8)
}

func (ch AlertChannel) SetAlert(alert teamform.Alert) {
	select {
	case ch <- alert:
	default:
	}
}

func (ch AlertChannel) wait() tea.Cmd {
	return func() tea.Msg {
		alert, ok := <-ch
		if !ok {
			return nil
		}
		return alertMsg(alert)
	}
}
