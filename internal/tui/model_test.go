package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dimitrije/harbor-teams/internal/credential"
	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUpdater struct {
	mu       sync.Mutex
	requests []teamform.Request
	err      error
}

func (u *recordingUpdater) UpdateTeam(_ context.Context, req teamform.Request) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests = append(u.requests, req)
	return u.err
}

func (u *recordingUpdater) calls() []teamform.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]teamform.Request(nil), u.requests...)
}

type failingSource struct{}

func (failingSource) Token(context.Context) (string, error) {
	return "", errors.New("token endpoint unreachable")
}

func newTestModel(t *testing.T, team *models.Team, creds credential.Source) (Model, *recordingUpdater) {
	t.Helper()
	updater := &recordingUpdater{}
	alerts := NewAlertChannel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := teamform.NewSession(team, updater, alerts, logger)
	return New(session, creds, alerts), updater
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: k})
}

func TestModel_TypingNamePatchesStore(t *testing.T) {
	m, _ := newTestModel(t, nil, credential.Static("tok"))

	m = typeText(t, m, "Platform")

	assert.Equal(t, "Platform", m.session.Store.Snapshot().Name)
	assert.Contains(t, m.View(), "New team")
}

func TestModel_AddAdminAndMember(t *testing.T) {
	m, _ := newTestModel(t, nil, credential.Static("tok"))

	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, fieldAdmin, m.focus)
	m = typeText(t, m, "lead@x.com")
	assert.Equal(t, "lead@x.com", m.session.Store.Snapshot().NewAdminEmail)

	m, _ = press(t, m, tea.KeyEnter)

	admins, members := m.session.Store.Groups()
	require.Len(t, admins, 1)
	assert.Empty(t, members)
	assert.Equal(t, "lead@x.com", admins[0].Email)
	assert.Equal(t, "", m.session.Store.Snapshot().NewAdminEmail)
	assert.Equal(t, "", m.inputs[fieldAdmin].Value())

	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "dev@x.com")
	m, _ = press(t, m, tea.KeyEnter)

	admins, members = m.session.Store.Groups()
	assert.Len(t, admins, 1)
	require.Len(t, members, 1)
	assert.Equal(t, "dev@x.com", members[0].Email)

	view := m.View()
	assert.Contains(t, view, "lead@x.com")
	assert.Contains(t, view, "dev@x.com")
}

func TestModel_EnterOnEmptyEmailAddsNothing(t *testing.T) {
	m, _ := newTestModel(t, nil, credential.Static("tok"))

	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyEnter)

	assert.Empty(t, m.session.Store.Snapshot().Members)
}

func TestModel_RemoveSelectedMember(t *testing.T) {
	team := &models.Team{
		ID: uuid.New(),
		Members: []models.Member{
			{ID: "1", Email: "a@x.com", IsTeamLead: true},
			{ID: "2", Email: "b@x.com"},
		},
	}
	m, _ := newTestModel(t, team, credential.Static("tok"))

	m, _ = press(t, m, tea.KeyDown)
	assert.Equal(t, 1, m.selected)

	m, _ = press(t, m, tea.KeyCtrlD)

	admins, members := m.session.Store.Groups()
	assert.Len(t, admins, 1)
	assert.Empty(t, members)
	assert.Equal(t, 0, m.selected)
}

func TestModel_AddProject(t *testing.T) {
	m, _ := newTestModel(t, nil, credential.Static("tok"))

	m, _ = press(t, m, tea.KeyCtrlN)
	m, _ = press(t, m, tea.KeyCtrlN)

	assert.Len(t, m.session.Store.Projects(), 2)
	assert.Equal(t, fieldProject, m.focus)
	assert.Contains(t, m.View(), "(unnamed)")
}

func TestModel_NameProjects(t *testing.T) {
	m, updater := newTestModel(t, nil, credential.Static("tok"))
	m = typeText(t, m, "Platform")

	m, _ = press(t, m, tea.KeyCtrlN)
	m = typeText(t, m, "web")
	m, _ = press(t, m, tea.KeyCtrlN)
	m = typeText(t, m, "api")

	projects := m.session.Store.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "api", projects[0].Name)
	assert.Equal(t, "web", projects[1].Name)

	m, _ = press(t, m, tea.KeyDown)
	assert.Equal(t, "web", m.inputs[fieldProject].Value())
	m = typeText(t, m, "site")

	projects = m.session.Store.Projects()
	assert.Equal(t, "api", projects[0].Name)
	assert.Equal(t, "website", projects[1].Name)
	assert.NotContains(t, m.View(), "(unnamed)")

	_, cmd := press(t, m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	cmd()
	require.IsType(t, alertMsg{}, m.alerts.wait()())

	require.Len(t, updater.calls(), 1)
	assert.Equal(t, "website", updater.calls()[0].Form.Projects[projects[1].ID].Name)
}

func TestModel_ProjectFieldIgnoredWithoutProject(t *testing.T) {
	m, _ := newTestModel(t, nil, credential.Static("tok"))

	for range 3 {
		m, _ = press(t, m, tea.KeyTab)
	}
	require.Equal(t, fieldProject, m.focus)
	m = typeText(t, m, "ghost")

	assert.Empty(t, m.session.Store.Projects())
}

func TestModel_SubmitShowsSuccessToast(t *testing.T) {
	team := &models.Team{ID: uuid.New(), Name: "Platform"}
	m, updater := newTestModel(t, team, credential.Static("tok"))

	m, cmd := press(t, m, tea.KeyCtrlS)
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.Equal(t, "saving...", m.status)

	alert := m.alerts.wait()()
	require.IsType(t, alertMsg{}, alert)

	require.Len(t, updater.calls(), 1)
	assert.Equal(t, "tok", updater.calls()[0].Credential)
	assert.Equal(t, teamform.ModeEdit, updater.calls()[0].Mode)

	m, cmd = send(t, m, alert)
	assert.NotNil(t, cmd)
	require.NotNil(t, m.toast)
	assert.Equal(t, teamform.SeveritySuccess, m.toast.Alert.Severity)
	assert.Contains(t, m.View(), teamform.MessageUpdated)

	m, _ = send(t, m, toastTimeoutMsg{ID: m.toast.ID})
	assert.Nil(t, m.toast)
}

func TestModel_SubmitFailureShowsErrorToast(t *testing.T) {
	m, updater := newTestModel(t, nil, credential.Static("tok"))
	updater.err = errors.New("502")

	m, cmd := press(t, m, tea.KeyCtrlS)
	m, _ = send(t, m, cmd())

	m, _ = send(t, m, m.alerts.wait()())
	require.NotNil(t, m.toast)
	assert.Equal(t, teamform.SeverityError, m.toast.Alert.Severity)
	assert.Contains(t, m.View(), teamform.MessageFailed)
}

func TestModel_SubmitWithoutCredentialIsDropped(t *testing.T) {
	m, updater := newTestModel(t, nil, credential.Static(""))

	m, cmd := press(t, m, tea.KeyCtrlS)
	m, _ = send(t, m, cmd())

	assert.Empty(t, updater.calls())
	assert.Equal(t, "", m.status)
	assert.Empty(t, m.alerts)
}

func TestModel_SubmitCredentialError(t *testing.T) {
	m, updater := newTestModel(t, nil, failingSource{})

	m, cmd := press(t, m, tea.KeyCtrlS)
	m, _ = send(t, m, cmd())

	assert.Empty(t, updater.calls())
	assert.Contains(t, m.status, "token endpoint unreachable")
}

func TestModel_StaleToastTimeoutIgnored(t *testing.T) {
	m, _ := newTestModel(t, nil, credential.Static("tok"))

	m, _ = send(t, m, alertMsg{Message: "first", Severity: teamform.SeveritySuccess})
	m, _ = send(t, m, alertMsg{Message: "second", Severity: teamform.SeverityError})

	m, _ = send(t, m, toastTimeoutMsg{ID: 1})
	require.NotNil(t, m.toast)
	assert.Equal(t, "second", m.toast.Alert.Message)
}

func TestModel_EscQuits(t *testing.T) {
	m, _ := newTestModel(t, nil, credential.Static("tok"))

	m, cmd := press(t, m, tea.KeyEsc)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())
}

func TestAlertChannel_DropsWhenFull(t *testing.T) {
	ch := NewAlertChannel()
	for i := 0; i < cap(ch)+3; i++ {
		ch.SetAlert(teamform.Alert{Message: "x"})
	}
	assert.Len(t, ch, cap(ch))
}
