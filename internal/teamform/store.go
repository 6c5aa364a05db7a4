package teamform

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/google/uuid"
)

// Store holds the State of one editing session. All mutations go through
// Patch; the member helpers build a patch and apply it.
type Store struct {
	mu     sync.Mutex
	state  State
	newID  func() string
	logger *slog.Logger

	// membersGen changes whenever a patch replaces the member map. The
	// cached groups are valid only for the generation they were built from.
	membersGen uint64
	groupsGen  uint64
	groupsOK   bool
	admins     []models.Member
	members    []models.Member
}

func NewStore(initial State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:  initial.Clone(),
		newID:  uuid.NewString,
		logger: logger,
	}
}

// SetIDGenerator replaces the id source used for new members and projects.
func (s *Store) SetIDGenerator(fn func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = fn
}

func (s *Store) Patch(p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(p)
}

func (s *Store) apply(p Patch) {
	if p.Members != nil {
		s.membersGen++
	}
	s.state.apply(p)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Groups partitions the roster into admins and plain members, each sorted
// by email. Both are nil for an empty roster.
func (s *Store) Groups() (admins, members []models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups()
}

// View returns a snapshot together with the groups derived from it.
func (s *Store) View() (st State, admins, members []models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admins, members = s.groups()
	return s.state.Clone(), admins, members
}

func (s *Store) groups() (admins, members []models.Member) {
	if !s.groupsOK || s.groupsGen != s.membersGen {
		s.admins, s.members = partition(s.state.Members)
		s.groupsGen = s.membersGen
		s.groupsOK = true
	}
	return slices.Clone(s.admins), slices.Clone(s.members)
}

func partition(roster map[string]models.Member) (admins, members []models.Member) {
	if len(roster) == 0 {
		return nil, nil
	}
	for _, m := range roster {
		if m.IsTeamLead {
			admins = append(admins, m)
		} else {
			members = append(members, m)
		}
	}
	byEmail := func(a, b models.Member) int { return cmp.Compare(a.Email, b.Email) }
	slices.SortFunc(admins, byEmail)
	slices.SortFunc(members, byEmail)
	return admins, members
}

// AddMember appends a member unless the email is empty or already on the
// roster. A successful add clears the matching pending-email input.
func (s *Store) AddMember(email string, asAdmin bool) {
	if email == "" {
		s.logger.Warn("member email is empty, not adding", "admin", asAdmin)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.state.Members {
		if m.Email == email {
			return
		}
	}

	roster := maps.Clone(s.state.Members)
	if roster == nil {
		roster = make(map[string]models.Member, 1)
	}
	roster[email] = models.Member{
		ID:         s.newID(),
		Email:      email,
		IsTeamLead: asAdmin,
	}

	p := Patch{Members: roster}
	if asAdmin {
		p.NewAdminEmail = String("")
	} else {
		p.NewMemberEmail = String("")
	}
	s.apply(p)
}

// RemoveMember drops the member with the given email and re-keys the rest.
func (s *Store) RemoveMember(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := make(map[string]models.Member, len(s.state.Members))
	for _, m := range s.state.Members {
		if m.Email == email {
			continue
		}
		roster[m.Email] = m
	}
	s.apply(Patch{Members: roster})
}

// AddProject appends a project built from the default template and returns
// its id.
func (s *Store) AddProject() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := models.DefaultProject()
	project.ID = s.newID()

	projects := s.cloneProjects()
	projects[project.ID] = project
	s.apply(Patch{Projects: projects})
	return project.ID
}

// UpdateProject replaces the project stored under p.ID.
func (s *Store) UpdateProject(p models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.cloneProjects()
	projects[p.ID] = p.Clone()
	s.apply(Patch{Projects: projects})
}

// Projects returns the projects ordered by name, then id.
func (s *Store) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SortedProjects(s.state.Projects)
}

// SortedProjects copies a project map into a slice ordered by name, then id.
func SortedProjects(projects map[string]models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b models.Project) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (s *Store) cloneProjects() map[string]models.Project {
	projects := maps.Clone(s.state.Projects)
	if projects == nil {
		projects = make(map[string]models.Project, 1)
	}
	return projects
}
