package teamform

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, initial State) (*Store, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := NewStore(initial, logger)

	n := 0
	store.SetIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	return store, &buf
}

func TestStore_AddMember_EmptyEmail(t *testing.T) {
	store, logs := setupStore(t, State{NewAdminEmail: "typed"})

	store.AddMember("", true)

	st := store.Snapshot()
	assert.Empty(t, st.Members)
	assert.Equal(t, "typed", st.NewAdminEmail)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "member email is empty")
}

func TestStore_AddMember_New(t *testing.T) {
	store, _ := setupStore(t, State{NewMemberEmail: "a@x.com", NewAdminEmail: "lead@x.com"})

	store.AddMember("a@x.com", false)

	st := store.Snapshot()
	require.Len(t, st.Members, 1)
	assert.Equal(t, models.Member{ID: "id-1", Email: "a@x.com", IsTeamLead: false}, st.Members["a@x.com"])
	assert.Equal(t, "", st.NewMemberEmail)
	assert.Equal(t, "lead@x.com", st.NewAdminEmail)
}

func TestStore_AddMember_AdminClearsAdminInput(t *testing.T) {
	store, _ := setupStore(t, State{NewMemberEmail: "m@x.com", NewAdminEmail: "lead@x.com"})

	store.AddMember("lead@x.com", true)

	st := store.Snapshot()
	assert.True(t, st.Members["lead@x.com"].IsTeamLead)
	assert.Equal(t, "", st.NewAdminEmail)
	assert.Equal(t, "m@x.com", st.NewMemberEmail)
}

func TestStore_AddMember_DuplicateKeepsFirstRole(t *testing.T) {
	store, logs := setupStore(t, State{})
	store.AddMember("a@x.com", false)
	store.Patch(Patch{NewAdminEmail: String("a@x.com")})

	store.AddMember("a@x.com", true)

	st := store.Snapshot()
	require.Len(t, st.Members, 1)
	assert.False(t, st.Members["a@x.com"].IsTeamLead)
	assert.Equal(t, "id-1", st.Members["a@x.com"].ID)
	assert.Equal(t, "a@x.com", st.NewAdminEmail)
	assert.Empty(t, logs.String())
}

func TestStore_AddMember_DedupAcrossSequence(t *testing.T) {
	store, _ := setupStore(t, State{})
	calls := []struct {
		email string
		admin bool
	}{
		{"a@x.com", true},
		{"b@x.com", false},
		{"a@x.com", false},
		{"", true},
		{"c@x.com", true},
		{"b@x.com", true},
	}
	for _, c := range calls {
		store.AddMember(c.email, c.admin)
	}

	st := store.Snapshot()
	require.Len(t, st.Members, 3)
	assert.True(t, st.Members["a@x.com"].IsTeamLead)
	assert.False(t, st.Members["b@x.com"].IsTeamLead)
	assert.True(t, st.Members["c@x.com"].IsTeamLead)
	for key, m := range st.Members {
		assert.Equal(t, key, m.Email)
	}
}

func TestStore_RemoveMember(t *testing.T) {
	store, _ := setupStore(t, State{})
	store.AddMember("a@x.com", true)
	store.AddMember("b@x.com", false)

	store.RemoveMember("a@x.com")

	st := store.Snapshot()
	require.Len(t, st.Members, 1)
	assert.Contains(t, st.Members, "b@x.com")
}

func TestStore_RemoveMember_Unknown(t *testing.T) {
	store, _ := setupStore(t, State{})
	store.AddMember("a@x.com", true)
	store.AddMember("b@x.com", false)
	before := store.Snapshot().Members

	store.RemoveMember("nobody@x.com")

	assert.Equal(t, before, store.Snapshot().Members)
}

func TestStore_Groups_Empty(t *testing.T) {
	store, _ := setupStore(t, State{})

	admins, members := store.Groups()

	assert.Nil(t, admins)
	assert.Nil(t, members)
}

func TestStore_Groups_Partition(t *testing.T) {
	roster := map[string]models.Member{}
	for i := 0; i < 20; i++ {
		email := fmt.Sprintf("user%02d@x.com", i)
		roster[email] = models.Member{ID: uuid.NewString(), Email: email, IsTeamLead: i%3 == 0}
	}
	store, _ := setupStore(t, State{Members: roster})

	admins, members := store.Groups()

	assert.Len(t, admins, 7)
	assert.Len(t, members, 13)
	seen := map[string]bool{}
	for _, m := range admins {
		assert.True(t, m.IsTeamLead)
		seen[m.Email] = true
	}
	for _, m := range members {
		assert.False(t, m.IsTeamLead)
		assert.False(t, seen[m.Email], "%s in both groups", m.Email)
		seen[m.Email] = true
	}
	assert.Len(t, seen, len(roster))
	assert.IsNonDecreasing(t, emails(admins))
	assert.IsNonDecreasing(t, emails(members))
}

func TestStore_Groups_RecomputedOnlyWhenMembersReplaced(t *testing.T) {
	store, _ := setupStore(t, State{})
	store.AddMember("a@x.com", true)

	admins, _ := store.Groups()
	require.Len(t, admins, 1)
	genBefore := store.groupsGen

	store.Patch(Patch{Name: String("Platform")})
	store.Groups()
	assert.Equal(t, genBefore, store.groupsGen)

	store.AddMember("b@x.com", true)
	admins, _ = store.Groups()
	assert.Len(t, admins, 2)
	assert.NotEqual(t, genBefore, store.groupsGen)
}

func TestStore_Groups_ReturnsCopies(t *testing.T) {
	store, _ := setupStore(t, State{})
	store.AddMember("a@x.com", true)

	admins, _ := store.Groups()
	admins[0].Email = "mutated@x.com"

	again, _ := store.Groups()
	assert.Equal(t, "a@x.com", again[0].Email)
}

func TestStore_Patch_Shallow(t *testing.T) {
	store, _ := setupStore(t, State{
		Name:    "Old",
		Members: map[string]models.Member{"a@x.com": {ID: "1", Email: "a@x.com"}},
	})

	store.Patch(Patch{Name: String("New"), NewMemberEmail: String("typing")})
	st := store.Snapshot()
	assert.Equal(t, "New", st.Name)
	assert.Equal(t, "typing", st.NewMemberEmail)
	assert.Len(t, st.Members, 1)

	store.Patch(Patch{Members: map[string]models.Member{"b@x.com": {ID: "2", Email: "b@x.com"}}})
	st = store.Snapshot()
	assert.Len(t, st.Members, 1)
	assert.Contains(t, st.Members, "b@x.com")
	assert.Equal(t, "New", st.Name)
}

func TestStore_Patch_LaterWins(t *testing.T) {
	store, _ := setupStore(t, State{})

	store.Patch(Patch{Name: String("first")})
	store.Patch(Patch{Name: String("second")})

	assert.Equal(t, "second", store.Snapshot().Name)
}

func TestStore_AddProject(t *testing.T) {
	store, _ := setupStore(t, State{})

	id := store.AddProject()

	st := store.Snapshot()
	require.Len(t, st.Projects, 1)
	project := st.Projects[id]
	assert.Equal(t, id, project.ID)
	assert.Equal(t, "", project.Name)
	assert.Empty(t, project.Codebases)
}

func TestStore_UpdateProject_ReplacesWhole(t *testing.T) {
	store, _ := setupStore(t, State{})
	id := store.AddProject()
	store.UpdateProject(models.Project{
		ID:        id,
		Name:      "api",
		Codebases: []models.Codebase{{ID: "c1", Name: "api", Language: "go", BuildTool: "go"}},
	})

	store.UpdateProject(models.Project{ID: id, Name: "api-v2"})

	project := store.Snapshot().Projects[id]
	assert.Equal(t, "api-v2", project.Name)
	assert.Empty(t, project.Codebases)
}

func TestStore_Projects_Ordered(t *testing.T) {
	store, _ := setupStore(t, State{})
	first := store.AddProject()
	second := store.AddProject()
	store.UpdateProject(models.Project{ID: first, Name: "zeta"})
	store.UpdateProject(models.Project{ID: second, Name: "alpha"})

	projects := store.Projects()

	require.Len(t, projects, 2)
	assert.Equal(t, "alpha", projects[0].Name)
	assert.Equal(t, "zeta", projects[1].Name)
}

func TestStore_Snapshot_IsIsolated(t *testing.T) {
	store, _ := setupStore(t, State{})
	store.AddMember("a@x.com", false)
	id := store.AddProject()

	st := store.Snapshot()
	delete(st.Members, "a@x.com")
	p := st.Projects[id]
	p.Name = "changed"
	st.Projects[id] = p

	again := store.Snapshot()
	assert.Contains(t, again.Members, "a@x.com")
	assert.Equal(t, "", again.Projects[id].Name)
}

func TestNewState_FromTeam(t *testing.T) {
	team := &models.Team{
		ID:   uuid.New(),
		Name: "Platform",
		Members: []models.Member{
			{ID: "1", Email: "a@x.com", IsTeamLead: true},
			{ID: "2", Email: "a@x.com", IsTeamLead: false},
			{ID: "3", Email: "b@x.com"},
		},
		Projects: []models.Project{{ID: "p1", Name: "api"}},
	}

	st := NewState(team)

	assert.Equal(t, "Platform", st.Name)
	require.Len(t, st.Members, 2)
	assert.Equal(t, "1", st.Members["a@x.com"].ID)
	assert.Equal(t, "api", st.Projects["p1"].Name)
}

func TestNewState_Nil(t *testing.T) {
	st := NewState(nil)

	assert.Equal(t, "", st.Name)
	assert.NotNil(t, st.Members)
	assert.NotNil(t, st.Projects)
}

func emails(ms []models.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Email
	}
	return out
}
