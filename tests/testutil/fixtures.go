package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/harbor-teams/internal/database"
	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/services"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// TeamOption customizes a fixture team
type TeamOption func(*services.TeamInput)

func WithTeamName(name string) TeamOption {
	return func(in *services.TeamInput) {
		in.Name = name
	}
}

func WithMember(email string, lead bool) TeamOption {
	return func(in *services.TeamInput) {
		in.Members = append(in.Members, models.Member{Email: email, IsTeamLead: lead})
	}
}

func WithProject(name string, codebases ...models.Codebase) TeamOption {
	return func(in *services.TeamInput) {
		in.Projects = append(in.Projects, models.Project{Name: name, Codebases: codebases})
	}
}

// CreateTeam stores a team through the team service. Without options it has
// one lead and no projects.
func (f *Fixtures) CreateTeam(t *testing.T, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	in := services.TeamInput{Name: fmt.Sprintf("Team %d", f.counter)}
	for _, opt := range opts {
		opt(&in)
	}
	if len(in.Members) == 0 {
		in.Members = []models.Member{{Email: fmt.Sprintf("lead%d@example.com", f.counter), IsTeamLead: true}}
	}

	team, err := services.NewTeamService(f.db).Create(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to create team fixture: %v", err)
	}
	return team
}
