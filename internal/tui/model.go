// Package tui renders a team form session in the terminal.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dimitrije/harbor-teams/internal/credential"
	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/teamform"
)

type field int

const (
	fieldName field = iota
	fieldAdmin
	fieldMember
	fieldProject
	fieldCount
)

// submitResultMsg reports whether a submit request was accepted
type submitResultMsg struct {
	accepted bool
	err      error
}

// Model is the bubbletea model of one team form session.
type Model struct {
	session *teamform.Session
	creds   credential.Source
	alerts  AlertChannel

	keys   KeyMap
	styles *Styles

	inputs   [fieldCount]textinput.Model
	focus    field
	selected int
	// project is the id of the project the project input edits.
	project string

	toast    *Toast
	toastSeq int64
	status   string
	quitting bool
}

// New builds the form model. alerts must be the sink the session's
// submitter reports to.
func New(session *teamform.Session, creds credential.Source, alerts AlertChannel) Model {
	m := Model{
		session: session,
		creds:   creds,
		alerts:  alerts,
		keys:    DefaultKeyMap(),
		styles:  NewStyles(),
	}

	placeholders := [fieldCount]string{"Team name", "admin@example.com", "member@example.com", "ctrl+n adds a project"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 254
		in.Width = 40
		m.inputs[i] = in
	}
	if projects := session.Store.Projects(); len(projects) > 0 {
		m.project = projects[0].ID
	}
	m.inputs[fieldName].Focus()
	m.syncInputs()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.alerts.wait())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case alertMsg:
		m.toastSeq++
		m.toast = &Toast{ID: m.toastSeq, Alert: teamform.Alert(msg), Duration: toastDuration}
		m.status = ""
		return m, tea.Batch(expireToast(m.toast.ID, m.toast.Duration), m.alerts.wait())

	case toastTimeoutMsg:
		if m.toast != nil && m.toast.ID == msg.ID {
			m.toast = nil
		}
		return m, nil

	case submitResultMsg:
		switch {
		case msg.err != nil:
			m.status = "could not obtain credentials: " + msg.err.Error()
		case msg.accepted:
			m.status = "saving..."
		default:
			m.status = ""
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.session.Store

	switch {
	case key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keys.Up) && m.focus == fieldProject:
		m.moveProject(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down) && m.focus == fieldProject:
		m.moveProject(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.roster())-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.AddMember):
		state := store.Snapshot()
		switch m.focus {
		case fieldAdmin:
			store.AddMember(state.NewAdminEmail, true)
		case fieldMember:
			store.AddMember(state.NewMemberEmail, false)
		case fieldProject:
			return m, nil
		default:
			return m.setFocus(fieldAdmin)
		}
		m.syncInputs()
		return m, nil

	case key.Matches(msg, m.keys.RemoveMember):
		roster := m.roster()
		if m.selected < len(roster) {
			store.RemoveMember(roster[m.selected].Email)
			if m.selected > 0 && m.selected >= len(roster)-1 {
				m.selected--
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.AddProject):
		m.project = store.AddProject()
		m.syncInputs()
		return m.setFocus(fieldProject)

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.CancelSubmit):
		if m.session.CancelSubmit() {
			m.status = "canceling..."
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused feeds msg to the focused input and mirrors its value into
// the store.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	value := m.inputs[m.focus].Value()
	switch m.focus {
	case fieldName:
		m.session.Store.Patch(teamform.Patch{Name: teamform.String(value)})
	case fieldAdmin:
		m.session.Store.Patch(teamform.Patch{NewAdminEmail: teamform.String(value)})
	case fieldMember:
		m.session.Store.Patch(teamform.Patch{NewMemberEmail: teamform.String(value)})
	case fieldProject:
		if project, ok := m.boundProject(); ok && project.Name != value {
			project.Name = value
			m.session.Store.UpdateProject(project)
		}
	}
	return m, cmd
}

func (m Model) boundProject() (models.Project, bool) {
	project, ok := m.session.Store.Snapshot().Projects[m.project]
	return project, ok
}

// moveProject binds the project input to the neighbour of the current
// project in display order.
func (m *Model) moveProject(delta int) {
	projects := m.session.Store.Projects()
	if len(projects) == 0 {
		return
	}
	i := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == m.project })
	i = max(0, min(len(projects)-1, i+delta))
	m.project = projects[i].ID
	m.syncInputs()
}

func (m Model) setFocus(f field) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m, m.inputs[m.focus].Focus()
}

func (m *Model) syncInputs() {
	state := m.session.Store.Snapshot()
	m.inputs[fieldName].SetValue(state.Name)
	m.inputs[fieldAdmin].SetValue(state.NewAdminEmail)
	m.inputs[fieldMember].SetValue(state.NewMemberEmail)
	m.inputs[fieldProject].SetValue(state.Projects[m.project].Name)
	m.inputs[fieldProject].CursorEnd()
}

func (m Model) submit() tea.Cmd {
	session := m.session
	creds := m.creds
	return func() tea.Msg {
		token, err := creds.Token(context.Background())
		if err != nil {
			return submitResultMsg{err: err}
		}
		sub := session.Submit(context.Background(), token)
		return submitResultMsg{accepted: sub.Outcome() != teamform.OutcomeBlocked}
	}
}

// roster is the selectable member list: admins first, then members.
func (m Model) roster() []models.Member {
	admins, members := m.session.Store.Groups()
	return append(admins, members...)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "New team"
	if m.session.Mode() == teamform.ModeEdit {
		title = "Edit team"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Name", "Add admin", "Add member", "Project"}
	for i := range m.inputs {
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("%-11s", labels[i])))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	admins, members := m.session.Store.Groups()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Panel.Render(m.memberTable("Admins", admins, 0)),
		m.styles.Panel.Render(m.memberTable("Members", members, len(admins))),
		m.styles.Panel.Render(m.projectList()),
	))
	b.WriteString("\n")

	if m.session.Submitting() {
		b.WriteString(m.styles.Badge.Render("saving..."))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Subtle.Render(m.status))
		b.WriteString("\n")
	}

	if m.toast != nil {
		style := m.styles.ToastSuccess
		if m.toast.Alert.Severity == teamform.SeverityError {
			style = m.styles.ToastError
		}
		b.WriteString(style.Render(m.toast.Alert.Message))
		b.WriteString("\n")
	}

	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) memberTable(title string, group []models.Member, offset int) string {
	lines := []string{m.styles.Label.Render(title)}
	if len(group) == 0 {
		lines = append(lines, m.styles.Subtle.Render("none"))
	}
	for i, member := range group {
		line := "  " + member.Email
		if offset+i == m.selected {
			line = m.styles.Selected.Render("> " + member.Email)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) projectList() string {
	lines := []string{m.styles.Label.Render("Projects")}
	projects := m.session.Store.Projects()
	if len(projects) == 0 {
		lines = append(lines, m.styles.Subtle.Render("none"))
	}
	for _, p := range projects {
		name := p.Name
		if name == "" {
			name = "(unnamed)"
		}
		badge := m.styles.Badge.Render(fmt.Sprintf("%d codebases", len(p.Codebases)))
		if p.ID == m.project {
			lines = append(lines, m.styles.Selected.Render("> "+name)+" "+badge)
			continue
		}
		lines = append(lines, "  "+name+" "+badge)
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpView() string {
	parts := make([]string, 0, len(m.keys.HelpBindings()))
	for _, b := range m.keys.HelpBindings() {
		help := b.Help()
		parts = append(parts, m.styles.HelpKey.Render(help.Key)+" "+m.styles.HelpDesc.Render(help.Desc))
	}
	return strings.Join(parts, "  ")
}
