package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dimitrije/harbor-teams/internal/services"
	"github.com/dimitrije/harbor-teams/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TeamHandler struct {
	teamService TeamServiceInterface
	logger      *slog.Logger
}

func NewTeamHandler(teamService TeamServiceInterface, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

func (h *TeamHandler) List(c *drift.Context) {
	teams, err := h.teamService.List(context.Background())
	if err != nil {
		h.logger.Error("failed to list teams", "error", err)
		c.InternalServerError("failed to get teams")
		return
	}

	response := make([]dto.TeamSummaryResponse, len(teams))
	for i, team := range teams {
		response[i] = dto.TeamSummaryResponse{ID: team.ID, Name: team.Name}
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	team, err := h.teamService.GetByID(context.Background(), teamID)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		h.logger.Error("failed to get team", "team_id", teamID, "error", err)
		c.InternalServerError("failed to get team")
		return
	}

	_ = c.JSON(200, dto.NewTeamResponse(team))
}

func (h *TeamHandler) Create(c *drift.Context) {
	req, ok := bindTeamRequest(c)
	if !ok {
		return
	}

	team, err := h.teamService.Create(context.Background(), teamInput(req))
	if err != nil {
		if h.writeInputError(c, err) {
			return
		}
		h.logger.Error("failed to create team", "error", err)
		c.InternalServerError("failed to create team")
		return
	}

	_ = c.JSON(201, dto.NewTeamResponse(team))
}

func (h *TeamHandler) Update(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	req, ok := bindTeamRequest(c)
	if !ok {
		return
	}

	team, err := h.teamService.Update(context.Background(), teamID, teamInput(req))
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		if h.writeInputError(c, err) {
			return
		}
		h.logger.Error("failed to update team", "team_id", teamID, "error", err)
		c.InternalServerError("failed to update team")
		return
	}

	_ = c.JSON(200, dto.NewTeamResponse(team))
}

func (h *TeamHandler) Delete(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Delete(context.Background(), teamID); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		h.logger.Error("failed to delete team", "team_id", teamID, "error", err)
		c.InternalServerError("failed to delete team")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deleted"})
}

// writeInputError answers errors caused by the request body itself.
func (h *TeamHandler) writeInputError(c *drift.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrTeamNameRequired):
		c.BadRequest("name is required")
	case errors.Is(err, services.ErrIDConflict):
		_ = c.JSON(409, map[string]string{"error": "member, project or codebase id already in use"})
	default:
		return false
	}
	return true
}

func bindTeamRequest(c *drift.Context) (dto.UpdateTeamRequest, bool) {
	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return req, false
	}

	if errors.Is(teamInput(req).Validate(), services.ErrTeamNameRequired) {
		c.BadRequest("name is required")
		return req, false
	}
	return req, true
}

func teamInput(req dto.UpdateTeamRequest) services.TeamInput {
	return services.TeamInput{
		Name:     req.Name,
		Members:  req.Roster(),
		Projects: req.ProjectModels(),
	}
}
