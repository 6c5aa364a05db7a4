package handlers

import (
	"context"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/services"
	"github.com/dimitrije/harbor-teams/internal/sessions"
	"github.com/dimitrije/harbor-teams/internal/sse"
	"github.com/google/uuid"
)

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	List(ctx context.Context) ([]models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	Create(ctx context.Context, in services.TeamInput) (*models.Team, error)
	Update(ctx context.Context, teamID uuid.UUID, in services.TeamInput) (*models.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID) error
}

// FormRegistryInterface defines the methods used by handlers from the form
// session registry
type FormRegistryInterface interface {
	Open(ctx context.Context, owner, credential string, teamID *uuid.UUID) (*sessions.Entry, error)
	Get(id uuid.UUID, owner string) (*sessions.Entry, error)
	Close(id uuid.UUID, owner string) error
}

// FormHubInterface defines the methods used by handlers from the SSE hub
type FormHubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	Follow(clientID string, formID uuid.UUID)
	Unfollow(clientID string, formID uuid.UUID)
}
