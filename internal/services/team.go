package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/harbor-teams/internal/database"
	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameRequired = errors.New("team name is required")
	// ErrIDConflict means a member, project or codebase id in the input
	// already belongs to another team.
	ErrIDConflict = errors.New("id already in use by another team")
)

// TeamInput is the full desired state of a team. Members holds admins and
// plain members together; duplicate emails keep the first entry.
type TeamInput struct {
	Name     string
	Members  []models.Member
	Projects []models.Project
}

func (in TeamInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrTeamNameRequired
	}
	return nil
}

type TeamService struct {
	db *database.DB
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db}
}

func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM teams
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM teams WHERE id = $1
	`, teamID).Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	if team.Members, err = s.getMembers(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	if team.Projects, err = s.getProjects(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return &team, nil
}

func (s *TeamService) getMembers(ctx context.Context, teamID uuid.UUID) ([]models.Member, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, email, is_team_lead
		FROM team_members WHERE team_id = $1
		ORDER BY email
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var id uuid.UUID
		var m models.Member
		if err := rows.Scan(&id, &m.Email, &m.IsTeamLead); err != nil {
			return nil, err
		}
		m.ID = id.String()
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *TeamService) getProjects(ctx context.Context, teamID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT p.id, p.name, c.id, c.name, c.language, c.build_tool
		FROM projects p
		LEFT JOIN codebases c ON c.project_id = p.id
		WHERE p.team_id = $1
		ORDER BY p.created_at, p.id, c.created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var projectID uuid.UUID
		var projectName string
		var codebaseID *uuid.UUID
		var cbName, cbLanguage, cbBuildTool *string
		if err := rows.Scan(&projectID, &projectName, &codebaseID, &cbName, &cbLanguage, &cbBuildTool); err != nil {
			return nil, err
		}

		i, ok := index[projectID]
		if !ok {
			projects = append(projects, models.Project{
				ID:        projectID.String(),
				Name:      projectName,
				Codebases: []models.Codebase{},
			})
			i = len(projects) - 1
			index[projectID] = i
		}
		if codebaseID != nil {
			projects[i].Codebases = append(projects[i].Codebases, models.Codebase{
				ID:        codebaseID.String(),
				Name:      deref(cbName),
				Language:  deref(cbLanguage),
				BuildTool: deref(cbBuildTool),
			})
		}
	}
	return projects, rows.Err()
}

func (s *TeamService) Create(ctx context.Context, in TeamInput) (*models.Team, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var team models.Team
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`, in.Name).Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if team.Members, team.Projects, err = writeChildren(ctx, tx, team.ID, in); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &team, nil
}

// Update renames the team and replaces its members and projects with the
// ones in the input.
func (s *TeamService) Update(ctx context.Context, teamID uuid.UUID, in TeamInput) (*models.Team, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var team models.Team
	err = tx.QueryRow(ctx, `
		UPDATE teams SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, created_at, updated_at
	`, in.Name, teamID).Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return nil, fmt.Errorf("failed to clear members: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE team_id = $1`, teamID); err != nil {
		return nil, fmt.Errorf("failed to clear projects: %w", err)
	}

	if team.Members, team.Projects, err = writeChildren(ctx, tx, teamID, in); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &team, nil
}

func (s *TeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func writeChildren(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, in TeamInput) ([]models.Member, []models.Project, error) {
	members := UniqueMembers(in.Members)
	for i, m := range members {
		id := normalizeID(m.ID)
		_, err := tx.Exec(ctx, `
			INSERT INTO team_members (id, team_id, email, is_team_lead)
			VALUES ($1, $2, $3, $4)
		`, id, teamID, m.Email, m.IsTeamLead)
		if err != nil {
			return nil, nil, insertError("member "+m.Email, err)
		}
		members[i].ID = id.String()
	}

	projects := make([]models.Project, 0, len(in.Projects))
	for _, p := range in.Projects {
		project := p.Clone()
		projectID := normalizeID(p.ID)
		_, err := tx.Exec(ctx, `
			INSERT INTO projects (id, team_id, name)
			VALUES ($1, $2, $3)
		`, projectID, teamID, p.Name)
		if err != nil {
			return nil, nil, insertError("project", err)
		}
		project.ID = projectID.String()

		for j, c := range project.Codebases {
			codebaseID := normalizeID(c.ID)
			_, err := tx.Exec(ctx, `
				INSERT INTO codebases (id, project_id, name, language, build_tool)
				VALUES ($1, $2, $3, $4, $5)
			`, codebaseID, projectID, c.Name, c.Language, c.BuildTool)
			if err != nil {
				return nil, nil, insertError("codebase", err)
			}
			project.Codebases[j].ID = codebaseID.String()
		}
		if project.Codebases == nil {
			project.Codebases = []models.Codebase{}
		}
		projects = append(projects, project)
	}
	return members, projects, nil
}

func insertError(what string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("failed to add %s: %w", what, ErrIDConflict)
	}
	return fmt.Errorf("failed to add %s: %w", what, err)
}

// UniqueMembers drops members with an empty or repeated email, keeping the
// first occurrence.
func UniqueMembers(in []models.Member) []models.Member {
	seen := make(map[string]bool, len(in))
	out := make([]models.Member, 0, len(in))
	for _, m := range in {
		if m.Email == "" || seen[m.Email] {
			continue
		}
		seen[m.Email] = true
		out = append(out, m)
	}
	return out
}

// normalizeID keeps client-generated UUIDs and replaces anything else.
func normalizeID(id string) uuid.UUID {
	if parsed, err := uuid.Parse(id); err == nil && parsed != uuid.Nil {
		return parsed
	}
	return uuid.New()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
