package testutil

import (
	"context"

	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/services"
	"github.com/dimitrije/harbor-teams/internal/sse"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) List(ctx context.Context) ([]models.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Create(ctx context.Context, in services.TeamInput) (*models.Team, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Update(ctx context.Context, teamID uuid.UUID, in services.TeamInput) (*models.Team, error) {
	args := m.Called(ctx, teamID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

// MockTeamLoader mocks the edit-form loader
type MockTeamLoader struct {
	mock.Mock
}

func (m *MockTeamLoader) GetTeam(ctx context.Context, credential string, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, credential, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

// MockUpdater mocks the remote team update call
type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) UpdateTeam(ctx context.Context, req teamform.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockFormHub mocks the SSE hub
type MockFormHub struct {
	mock.Mock
}

func (m *MockFormHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockFormHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockFormHub) Follow(clientID string, formID uuid.UUID) {
	m.Called(clientID, formID)
}

func (m *MockFormHub) Unfollow(clientID string, formID uuid.UUID) {
	m.Called(clientID, formID)
}
