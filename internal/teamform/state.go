package teamform

import (
	"maps"

	"github.com/dimitrije/harbor-teams/internal/models"
)

// State is the editable form of one team. Members is keyed by email and
// Projects by project id.
type State struct {
	Name           string
	Members        map[string]models.Member
	Projects       map[string]models.Project
	NewAdminEmail  string
	NewMemberEmail string
}

// Patch is a partial State. Nil fields are left untouched. Members and
// Projects replace the whole map when set; callers build the merged map
// themselves.
type Patch struct {
	Name           *string
	Members        map[string]models.Member
	Projects       map[string]models.Project
	NewAdminEmail  *string
	NewMemberEmail *string
}

// NewState seeds a form from a stored team. A nil team yields the empty
// create-flow form. Duplicate member emails keep the first entry.
func NewState(team *models.Team) State {
	st := State{
		Members:  map[string]models.Member{},
		Projects: map[string]models.Project{},
	}
	if team == nil {
		return st
	}

	st.Name = team.Name
	for _, m := range team.Members {
		if m.Email == "" {
			continue
		}
		if _, ok := st.Members[m.Email]; ok {
			continue
		}
		st.Members[m.Email] = m
	}
	for _, p := range team.Projects {
		st.Projects[p.ID] = p.Clone()
	}
	return st
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Members = maps.Clone(s.Members)
	if s.Projects != nil {
		out.Projects = make(map[string]models.Project, len(s.Projects))
		for id, p := range s.Projects {
			out.Projects[id] = p.Clone()
		}
	}
	return out
}

func (s *State) apply(p Patch) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Members != nil {
		s.Members = p.Members
	}
	if p.Projects != nil {
		s.Projects = p.Projects
	}
	if p.NewAdminEmail != nil {
		s.NewAdminEmail = *p.NewAdminEmail
	}
	if p.NewMemberEmail != nil {
		s.NewMemberEmail = *p.NewMemberEmail
	}
}

// String returns a pointer to v, for building patches.
func String(v string) *string {
	return &v
}
