package teamform

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/google/uuid"
)

// Session is one mounted team form: a store, its submitter and the route
// context (create or edit, and which team).
type Session struct {
	Store *Store

	mode      Mode
	teamID    uuid.UUID
	submitter *Submitter

	mu      sync.Mutex
	current *Submission
}

// NewSession opens a create-flow session when team is nil and an edit-flow
// session seeded from team otherwise.
func NewSession(team *models.Team, updater Updater, alerts AlertSink, logger *slog.Logger) *Session {
	s := &Session{
		Store:     NewStore(NewState(team), logger),
		mode:      ModeCreate,
		submitter: NewSubmitter(updater, alerts, logger),
	}
	if team != nil {
		s.mode = ModeEdit
		s.teamID = team.ID
	}
	return s
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) TeamID() uuid.UUID {
	return s.teamID
}

func (s *Session) Submitter() *Submitter {
	return s.submitter
}

func (s *Session) Submitting() bool {
	return s.submitter.State() == StateSubmitting
}

// Submit snapshots the form and its groups and hands them to the submitter.
func (s *Session) Submit(ctx context.Context, credential string) *Submission {
	form, admins, members := s.Store.View()
	sub := s.submitter.Submit(ctx, Request{
		Credential: credential,
		Mode:       s.mode,
		TeamID:     s.teamID,
		Form:       form,
		Admins:     admins,
		Members:    members,
	})
	if sub.Outcome() != OutcomeBlocked {
		s.mu.Lock()
		s.current = sub
		s.mu.Unlock()
	}
	return sub
}

// CancelSubmit requests cancellation of the latest accepted submission. It
// reports whether one was still running.
func (s *Session) CancelSubmit() bool {
	s.mu.Lock()
	sub := s.current
	s.mu.Unlock()

	if sub == nil || sub.Outcome() != OutcomePending {
		return false
	}
	sub.Cancel()
	return true
}
