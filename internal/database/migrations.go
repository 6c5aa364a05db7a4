package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Members are keyed by email within a team; is_team_lead marks admins.
	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		email VARCHAR(255) NOT NULL,
		is_team_lead BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(team_id, email)
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS codebases (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL DEFAULT '',
		language VARCHAR(100) NOT NULL DEFAULT '',
		build_tool VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_team_members_team_id ON team_members(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_team_id ON projects(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_codebases_project_id ON codebases(project_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
