// Command issue-token prints a development access token for an email.
package main

import (
	"fmt"
	"os"

	"github.com/dimitrije/harbor-teams/internal/config"
	"github.com/dimitrije/harbor-teams/internal/services"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: issue-token <email>")
		os.Exit(1)
	}
	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	token, err := jwtService.GenerateAccessToken(email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
