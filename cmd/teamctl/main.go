package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logFile string

var rootCmd = &cobra.Command{
	Use:   "teamctl",
	Short: "teamctl edits SBOM Harbor teams from the terminal",
	Long:  "teamctl opens the team form against a Harbor teams API. Settings come from the environment or a .env file (HARBOR_API_URL, HARBOR_TOKEN or HARBOR_CLIENT_ID/HARBOR_CLIENT_SECRET/HARBOR_TOKEN_URL).",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write diagnostics to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
