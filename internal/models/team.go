package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Members   []Member  `json:"members"`
	Projects  []Project `json:"projects"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is identified by its email address. IsTeamLead is the only role
// discriminator: leads are the team's admins.
type Member struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	IsTeamLead bool   `json:"is_team_lead"`
}

