package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("form session not found")

// Loader fetches the team an edit session is seeded from.
type Loader interface {
	GetTeam(ctx context.Context, credential string, teamID uuid.UUID) (*models.Team, error)
}

// Notifier fans session events out to subscribed streams.
type Notifier interface {
	BroadcastAlert(formID uuid.UUID, alert teamform.Alert)
	BroadcastFormClosed(formID uuid.UUID)
}

type Metrics interface {
	teamform.Observer
	SessionOpened(mode teamform.Mode)
	SessionClosed()
}

// Entry is a registered form session owned by one user.
type Entry struct {
	ID      uuid.UUID
	Owner   string
	Session *teamform.Session

	notifier Notifier

	mu        sync.Mutex
	lastAlert *teamform.Alert
	lastUsed  time.Time
}

// SetAlert records the alert and pushes it to followers of the session.
func (e *Entry) SetAlert(alert teamform.Alert) {
	e.mu.Lock()
	e.lastAlert = &alert
	e.mu.Unlock()

	if e.notifier != nil {
		e.notifier.BroadcastAlert(e.ID, alert)
	}
}

// LastAlert returns the alert of the most recent finished submission.
func (e *Entry) LastAlert() *teamform.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastAlert == nil {
		return nil
	}
	alert := *e.lastAlert
	return &alert
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastUsed = now
	e.mu.Unlock()
}

func (e *Entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

type Registry struct {
	updater     teamform.Updater
	loader      Loader
	notifier    Notifier
	metrics     Metrics
	logger      *slog.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

type Options struct {
	Updater     teamform.Updater
	Loader      Loader
	Notifier    Notifier
	Metrics     Metrics
	Logger      *slog.Logger
	IdleTimeout time.Duration
}

func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		updater:     opts.Updater,
		loader:      opts.Loader,
		notifier:    opts.Notifier,
		metrics:     opts.Metrics,
		logger:      logger,
		idleTimeout: opts.IdleTimeout,
		now:         time.Now,
		entries:     make(map[uuid.UUID]*Entry),
	}
}

// Open starts a form session for owner. A nil teamID opens the create flow;
// otherwise the team is loaded with the caller's credential and the edit
// flow is seeded from it.
func (r *Registry) Open(ctx context.Context, owner, credential string, teamID *uuid.UUID) (*Entry, error) {
	var team *models.Team
	if teamID != nil {
		loaded, err := r.loader.GetTeam(ctx, credential, *teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team: %w", err)
		}
		team = loaded
	}

	entry := &Entry{
		ID:       uuid.New(),
		Owner:    owner,
		notifier: r.notifier,
		lastUsed: r.now(),
	}
	entry.Session = teamform.NewSession(team, r.updater, entry, r.logger.With("form_id", entry.ID))
	if r.metrics != nil {
		entry.Session.Submitter().SetObserver(r.metrics)
		r.metrics.SessionOpened(entry.Session.Mode())
	}

	r.mu.Lock()
	r.entries[entry.ID] = entry
	r.mu.Unlock()

	r.logger.Info("form session opened",
		"form_id", entry.ID,
		"mode", entry.Session.Mode(),
		"team_id", entry.Session.TeamID(),
		"owner", owner,
	)
	return entry, nil
}

// Get returns the session if it exists and belongs to owner, and marks it as
// used.
func (r *Registry) Get(id uuid.UUID, owner string) (*Entry, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok || entry.Owner != owner {
		return nil, ErrSessionNotFound
	}
	entry.touch(r.now())
	return entry, nil
}

// Close removes the session. A submission still in flight keeps running and
// its alert is dropped with the session.
func (r *Registry) Close(id uuid.UUID, owner string) error {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if !ok || entry.Owner != owner {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(r.entries, id)
	r.mu.Unlock()

	r.closed(entry, "closed")
	return nil
}

// Sweep closes sessions idle for longer than the idle timeout. Sessions with
// a submission in flight are kept. It returns the number of sessions closed.
func (r *Registry) Sweep() int {
	if r.idleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTimeout)

	var expired []*Entry
	r.mu.Lock()
	for id, entry := range r.entries {
		if entry.Session.Submitting() || entry.idleSince().After(cutoff) {
			continue
		}
		delete(r.entries, id)
		expired = append(expired, entry)
	}
	r.mu.Unlock()

	for _, entry := range expired {
		r.closed(entry, "expired")
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("swept idle form sessions", "count", n)
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) closed(entry *Entry, reason string) {
	if r.metrics != nil {
		r.metrics.SessionClosed()
	}
	if r.notifier != nil {
		r.notifier.BroadcastFormClosed(entry.ID)
	}
	r.logger.Info("form session "+reason, "form_id", entry.ID, "owner", entry.Owner)
}
