// Package client talks to the teams API over HTTP. It is the remote side of
// a form submission and the loader for edit-mode forms.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/dimitrije/harbor-teams/pkg/dto"
	"github.com/google/uuid"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNotFound         = errors.New("resource not found")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL. timeout bounds every
// request; zero disables it.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UpdateTeam creates or replaces a team from a submitted form.
func (c *Client) UpdateTeam(ctx context.Context, req teamform.Request) error {
	method, path := http.MethodPost, "/teams"
	if req.Mode == teamform.ModeEdit {
		method, path = http.MethodPatch, "/teams/"+req.TeamID.String()
	}

	return c.do(ctx, method, path, req.Credential, BuildUpdateRequest(req), nil)
}

// GetTeam loads a stored team to seed an edit-mode form.
func (c *Client) GetTeam(ctx context.Context, credential string, teamID uuid.UUID) (*models.Team, error) {
	var resp dto.TeamResponse
	if err := c.do(ctx, http.MethodGet, "/teams/"+teamID.String(), credential, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Model(), nil
}

// BuildUpdateRequest turns a submission into the wire body. Projects are
// sent in a stable order.
func BuildUpdateRequest(req teamform.Request) dto.UpdateTeamRequest {
	body := dto.UpdateTeamRequest{
		Name:     req.Form.Name,
		Admins:   memberPayloads(req.Admins),
		Members:  memberPayloads(req.Members),
		Projects: []dto.ProjectPayload{},
	}
	for _, p := range teamform.SortedProjects(req.Form.Projects) {
		body.Projects = append(body.Projects, dto.NewProjectPayload(p))
	}
	return body
}

func memberPayloads(ms []models.Member) []dto.MemberPayload {
	out := make([]dto.MemberPayload, len(ms))
	for i, m := range ms {
		out[i] = dto.MemberPayload{ID: m.ID, Email: m.Email, IsTeamLead: m.IsTeamLead}
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path, credential string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: %w %d: %s", method, path, ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
