package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/google/uuid"
)

type teamStore interface {
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	Create(ctx context.Context, in TeamInput) (*models.Team, error)
	Update(ctx context.Context, teamID uuid.UUID, in TeamInput) (*models.Team, error)
}

// FormBackend serves form sessions straight from the team store when the
// server is not configured to call a remote teams API. The credential was
// already checked by the auth middleware when the session was used.
type FormBackend struct {
	teams teamStore
}

func NewFormBackend(teams teamStore) *FormBackend {
	return &FormBackend{teams: teams}
}

func (b *FormBackend) GetTeam(ctx context.Context, _ string, teamID uuid.UUID) (*models.Team, error) {
	return b.teams.GetByID(ctx, teamID)
}

// UpdateTeam implements teamform.Updater.
func (b *FormBackend) UpdateTeam(ctx context.Context, req teamform.Request) error {
	in := TeamInput{
		Name:     req.Form.Name,
		Members:  append(append([]models.Member{}, req.Admins...), req.Members...),
		Projects: teamform.SortedProjects(req.Form.Projects),
	}
	if err := in.Validate(); err != nil {
		return err
	}

	switch req.Mode {
	case teamform.ModeCreate:
		if _, err := b.teams.Create(ctx, in); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
	case teamform.ModeEdit:
		if _, err := b.teams.Update(ctx, req.TeamID, in); err != nil {
			return fmt.Errorf("failed to update team %s: %w", req.TeamID, err)
		}
	default:
		return fmt.Errorf("unknown form mode %q", req.Mode)
	}
	return nil
}
