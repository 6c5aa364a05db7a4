package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/dimitrije/harbor-teams/internal/client"
	"github.com/dimitrije/harbor-teams/internal/middleware"
	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/services"
	"github.com/dimitrije/harbor-teams/internal/sessions"
	"github.com/dimitrije/harbor-teams/internal/sse"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/dimitrije/harbor-teams/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// FormHandler exposes server-hosted team form sessions. Every route acts on
// a session owned by the authenticated user.
type FormHandler struct {
	registry FormRegistryInterface
	hub      FormHubInterface
	logger   *slog.Logger
}

func NewFormHandler(registry FormRegistryInterface, hub FormHubInterface, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		registry: registry,
		hub:      hub,
		logger:   logger,
	}
}

func (h *FormHandler) Open(c *drift.Context) {
	email := middleware.GetUserEmail(c)
	if email == "" {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.OpenFormRequest
	if c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("invalid request body")
			return
		}
	}

	entry, err := h.registry.Open(context.Background(), email, middleware.GetAccessToken(c), req.TeamID)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) || errors.Is(err, client.ErrNotFound) {
			c.NotFound("team not found")
			return
		}
		h.logger.Error("failed to open form session", "team_id", req.TeamID, "error", err)
		c.InternalServerError("failed to load team")
		return
	}

	_ = c.JSON(201, formResponse(entry))
}

func (h *FormHandler) Get(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}
	_ = c.JSON(200, formResponse(entry))
}

func (h *FormHandler) Close(c *drift.Context) {
	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid form id")
		return
	}

	if err := h.registry.Close(formID, middleware.GetUserEmail(c)); err != nil {
		c.NotFound("form not found")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "form closed"})
}

func (h *FormHandler) Patch(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	var req dto.PatchFormRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	entry.Session.Store.Patch(teamform.Patch{
		Name:           req.Name,
		NewAdminEmail:  req.NewAdminEmail,
		NewMemberEmail: req.NewMemberEmail,
	})

	_ = c.JSON(200, formResponse(entry))
}

func (h *FormHandler) AddMember(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	var req dto.AddFormMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	// Empty and duplicate emails are left to the store, which ignores them.
	entry.Session.Store.AddMember(req.Email, req.Admin)

	_ = c.JSON(200, formResponse(entry))
}

func (h *FormHandler) RemoveMember(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	email, err := url.PathUnescape(c.Param("email"))
	if err != nil {
		c.BadRequest("invalid email")
		return
	}

	entry.Session.Store.RemoveMember(email)

	_ = c.JSON(200, formResponse(entry))
}

func (h *FormHandler) AddProject(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	id := entry.Session.Store.AddProject()
	project := models.DefaultProject()
	project.ID = id

	_ = c.JSON(201, dto.AddFormProjectResponse{Project: dto.NewProjectPayload(project)})
}

func (h *FormHandler) UpdateProject(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	var req dto.ProjectPayload
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	project := req.Model()
	project.ID = c.Param("projectId")
	entry.Session.Store.UpdateProject(project)

	_ = c.JSON(200, formResponse(entry))
}

// Submit starts the remote update in the background and answers at once.
// The outcome arrives as an alert on the events stream and on the next Get.
func (h *FormHandler) Submit(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	sub := entry.Session.Submit(context.Background(), middleware.GetAccessToken(c))

	_ = c.JSON(202, dto.SubmitFormResponse{Submitting: sub.Outcome() != teamform.OutcomeBlocked})
}

func (h *FormHandler) Cancel(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	canceled := entry.Session.CancelSubmit()

	_ = c.JSON(200, map[string]bool{"canceled": canceled})
}

func (h *FormHandler) Events(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:    clientID,
		Email: entry.Owner,
		Forms: map[uuid.UUID]bool{entry.ID: true},
		Send:  make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// Follow adds another form session to an open events stream.
func (h *FormHandler) Follow(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	h.hub.Follow(clientID, entry.ID)

	_ = c.JSON(200, map[string]string{"message": "following form " + entry.ID.String()})
}

func (h *FormHandler) Unfollow(c *drift.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	h.hub.Unfollow(clientID, entry.ID)

	_ = c.JSON(200, map[string]string{"message": "unfollowed form " + entry.ID.String()})
}

func (h *FormHandler) entry(c *drift.Context) (*sessions.Entry, bool) {
	email := middleware.GetUserEmail(c)
	if email == "" {
		c.Unauthorized("not authenticated")
		return nil, false
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid form id")
		return nil, false
	}

	entry, err := h.registry.Get(formID, email)
	if err != nil {
		if !errors.Is(err, sessions.ErrSessionNotFound) {
			h.logger.Error("failed to get form session", "form_id", formID, "error", err)
		}
		c.NotFound("form not found")
		return nil, false
	}
	return entry, true
}

func formResponse(entry *sessions.Entry) dto.FormResponse {
	state, admins, members := entry.Session.Store.View()

	resp := dto.FormResponse{
		ID:             entry.ID,
		Mode:           string(entry.Session.Mode()),
		Name:           state.Name,
		NewAdminEmail:  state.NewAdminEmail,
		NewMemberEmail: state.NewMemberEmail,
		Admins:         memberPayloads(admins),
		Members:        memberPayloads(members),
		Projects:       []dto.ProjectPayload{},
		Submitting:     entry.Session.Submitting(),
	}
	if entry.Session.Mode() == teamform.ModeEdit {
		teamID := entry.Session.TeamID()
		resp.TeamID = &teamID
	}
	for _, p := range teamform.SortedProjects(state.Projects) {
		resp.Projects = append(resp.Projects, dto.NewProjectPayload(p))
	}
	if alert := entry.LastAlert(); alert != nil {
		resp.Alert = &dto.AlertResponse{Message: alert.Message, Severity: string(alert.Severity)}
	}
	return resp
}

func memberPayloads(ms []models.Member) []dto.MemberPayload {
	out := make([]dto.MemberPayload, len(ms))
	for i, m := range ms {
		out[i] = dto.MemberPayload{ID: m.ID, Email: m.Email, IsTeamLead: m.IsTeamLead}
	}
	return out
}
