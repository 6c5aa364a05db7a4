package teamform

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/google/uuid"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Request is everything the remote update call needs. TeamID is only
// meaningful in edit mode.
type Request struct {
	Credential string
	Mode       Mode
	TeamID     uuid.UUID
	Form       State
	Admins     []models.Member
	Members    []models.Member
}

// Updater performs the remote "update team" call. Cancellation of ctx is a
// request, the implementation decides whether it can abort.
type Updater interface {
	UpdateTeam(ctx context.Context, req Request) error
}

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeBlocked
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "pending"
	}
}

type SubmitState int

const (
	StateIdle SubmitState = iota
	StateSubmitting
)

// Observer is notified around every remote call the Submitter issues.
type Observer interface {
	SubmissionStarted()
	SubmissionFinished(outcome Outcome)
}

type noopObserver struct{}

func (noopObserver) SubmissionStarted()         {}
func (noopObserver) SubmissionFinished(Outcome) {}

// Submission is the handle for one submit attempt.
type Submission struct {
	cancel  context.CancelFunc
	done    chan struct{}
	outcome Outcome
}

func finishedSubmission(outcome Outcome) *Submission {
	done := make(chan struct{})
	close(done)
	return &Submission{cancel: func() {}, done: done, outcome: outcome}
}

// Cancel asks the in-flight remote call to stop. The outcome of a cancelled
// call is reported as a failure.
func (s *Submission) Cancel() {
	s.cancel()
}

func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the submission has resolved.
func (s *Submission) Wait() Outcome {
	<-s.done
	return s.outcome
}

func (s *Submission) Outcome() Outcome {
	select {
	case <-s.done:
		return s.outcome
	default:
		return OutcomePending
	}
}

// Submitter allows at most one remote update in flight. Attempts made while
// one is outstanding, or without a credential, are dropped.
type Submitter struct {
	updater    Updater
	alerts     AlertSink
	logger     *slog.Logger
	observer   Observer
	submitting atomic.Bool
}

func NewSubmitter(updater Updater, alerts AlertSink, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		updater:  updater,
		alerts:   alerts,
		logger:   logger,
		observer: noopObserver{},
	}
}

func (s *Submitter) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	s.observer = o
}

func (s *Submitter) State() SubmitState {
	if s.submitting.Load() {
		return StateSubmitting
	}
	return StateIdle
}

// Submit issues the remote update on its own goroutine and returns at once.
// ctx bounds the remote call, so it must outlive the caller's request scope
// if the submission should.
func (s *Submitter) Submit(ctx context.Context, req Request) *Submission {
	if req.Credential == "" {
		return finishedSubmission(OutcomeBlocked)
	}
	if req.Mode == ModeEdit && req.TeamID == uuid.Nil {
		s.logger.Warn("edit submission without a team id, not submitting")
		return finishedSubmission(OutcomeBlocked)
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return finishedSubmission(OutcomeBlocked)
	}

	callCtx, cancel := context.WithCancel(ctx)
	sub := &Submission{cancel: cancel, done: make(chan struct{})}
	s.observer.SubmissionStarted()

	go s.run(callCtx, req, sub)
	return sub
}

func (s *Submitter) run(ctx context.Context, req Request, sub *Submission) {
	defer close(sub.done)
	defer sub.cancel()

	err := s.updater.UpdateTeam(ctx, req)
	s.submitting.Store(false)

	if err != nil {
		s.logger.Error("team update failed",
			"mode", req.Mode,
			"team_id", req.TeamID,
			"error", err,
		)
		sub.outcome = OutcomeFailure
		s.alerts.SetAlert(failureAlert)
	} else {
		sub.outcome = OutcomeSuccess
		s.alerts.SetAlert(successAlert)
	}
	s.observer.SubmissionFinished(sub.outcome)
}
