package dto

import (
	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/google/uuid"
)

// UpdateTeamRequest is the body of both POST /teams and PATCH /teams/:id.
// Admins and Members are the two derived groups of the form roster.
type UpdateTeamRequest struct {
	Name     string           `json:"name"`
	Admins   []MemberPayload  `json:"admins"`
	Members  []MemberPayload  `json:"members"`
	Projects []ProjectPayload `json:"projects"`
}

type MemberPayload struct {
	ID         string `json:"id,omitempty"`
	Email      string `json:"email"`
	IsTeamLead bool   `json:"is_team_lead"`
}

type ProjectPayload struct {
	ID        string            `json:"id,omitempty"`
	Name      string            `json:"name"`
	Codebases []CodebasePayload `json:"codebases"`
}

type CodebasePayload struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	BuildTool string `json:"build_tool"`
}

type TeamResponse struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Members  []MemberPayload  `json:"members"`
	Projects []ProjectPayload `json:"projects"`
}

type TeamSummaryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewTeamResponse converts a stored team into its wire shape.
func NewTeamResponse(team *models.Team) TeamResponse {
	resp := TeamResponse{
		ID:       team.ID,
		Name:     team.Name,
		Members:  make([]MemberPayload, len(team.Members)),
		Projects: make([]ProjectPayload, len(team.Projects)),
	}
	for i, m := range team.Members {
		resp.Members[i] = MemberPayload{ID: m.ID, Email: m.Email, IsTeamLead: m.IsTeamLead}
	}
	for i, p := range team.Projects {
		resp.Projects[i] = NewProjectPayload(p)
	}
	return resp
}

func NewProjectPayload(p models.Project) ProjectPayload {
	out := ProjectPayload{ID: p.ID, Name: p.Name, Codebases: make([]CodebasePayload, len(p.Codebases))}
	for i, c := range p.Codebases {
		out.Codebases[i] = CodebasePayload{ID: c.ID, Name: c.Name, Language: c.Language, BuildTool: c.BuildTool}
	}
	return out
}

func (p ProjectPayload) Model() models.Project {
	out := models.Project{ID: p.ID, Name: p.Name, Codebases: make([]models.Codebase, len(p.Codebases))}
	for i, c := range p.Codebases {
		out.Codebases[i] = models.Codebase{ID: c.ID, Name: c.Name, Language: c.Language, BuildTool: c.BuildTool}
	}
	return out
}

// Model converts the response back into a stored-team shape. Used by the
// remote loader.
func (r TeamResponse) Model() *models.Team {
	team := &models.Team{
		ID:       r.ID,
		Name:     r.Name,
		Members:  make([]models.Member, len(r.Members)),
		Projects: make([]models.Project, len(r.Projects)),
	}
	for i, m := range r.Members {
		team.Members[i] = models.Member{ID: m.ID, Email: m.Email, IsTeamLead: m.IsTeamLead}
	}
	for i, p := range r.Projects {
		team.Projects[i] = p.Model()
	}
	return team
}

// Roster flattens the two groups into one member list, admins first. The
// group a payload arrived in decides its lead flag.
func (r UpdateTeamRequest) Roster() []models.Member {
	roster := make([]models.Member, 0, len(r.Admins)+len(r.Members))
	for _, m := range r.Admins {
		roster = append(roster, models.Member{ID: m.ID, Email: m.Email, IsTeamLead: true})
	}
	for _, m := range r.Members {
		roster = append(roster, models.Member{ID: m.ID, Email: m.Email, IsTeamLead: false})
	}
	return roster
}

func (r UpdateTeamRequest) ProjectModels() []models.Project {
	projects := make([]models.Project, len(r.Projects))
	for i, p := range r.Projects {
		projects[i] = p.Model()
	}
	return projects
}
