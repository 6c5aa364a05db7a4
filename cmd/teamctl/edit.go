package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dimitrije/harbor-teams/internal/client"
	"github.com/dimitrije/harbor-teams/internal/config"
	"github.com/dimitrije/harbor-teams/internal/credential"
	"github.com/dimitrije/harbor-teams/internal/models"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/dimitrije/harbor-teams/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	editTeamID  string
	editTimeout time.Duration
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Create a team, or edit one with --team",
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTeamID, "team", "", "id of the team to edit (omit to create a team)")
	editCmd.Flags().DurationVar(&editTimeout, "timeout", 30*time.Second, "timeout for each API request")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := openLogger(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := config.LoadClient()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	creds := credential.FromSettings(cfg.Token, cfg.ClientID, cfg.ClientSecret, cfg.TokenURL)
	api := client.New(cfg.APIURL, editTimeout)

	var team *models.Team
	if editTeamID != "" {
		teamID, err := uuid.Parse(editTeamID)
		if err != nil {
			return fmt.Errorf("invalid team id %q: %w", editTeamID, err)
		}
		token, err := creds.Token(ctx)
		if err != nil {
			return err
		}
		team, err = api.GetTeam(ctx, token, teamID)
		if err != nil {
			return fmt.Errorf("failed to load team: %w", err)
		}
	}

	alerts := tui.NewAlertChannel()
	session := teamform.NewSession(team, api, alerts, logger)

	_, err = tea.NewProgram(tui.New(session, creds, alerts), tea.WithAltScreen()).Run()
	return err
}

// openLogger sends diagnostics to path, or discards them when path is empty
// since the terminal belongs to the form.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), func() { _ = f.Close() }, nil
}
