package cli

import (
	"fmt"
	"os"

	"github.com/luo-one/inbox-agent/internal/api/middleware"
	"github.com/luo-one/inbox-agent/internal/config"
	"github.com/luo-one/inbox-agent/internal/services"
	"github.com/spf13/cobra"
)

// App carries the shared state every command works against
type App struct {
	Config     *config.Config
	LogService *services.LogService
	APIKeys    *middleware.APIKeyManager
}

// NewRootCommand builds the command tree around app
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inbox-agent",
		Short: "Inbox triage agent",
		Long: `Inbox Agent sorts an inbox into important and marketing mail, scores
importance, drafts replies and flags newsletters for unsubscription.

Without arguments the HTTP API server starts. Commands:
  inbox-agent run                    # triage the sample inbox
  inbox-agent run --source eml --path ./mail
  inbox-agent run --source imap      # triage the configured IMAP mailbox
  inbox-agent logs --module agent    # show recent operational logs
  inbox-agent key show               # show the current API key
  inbox-agent key reset              # rotate the API key`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newLogsCmd(app))
	rootCmd.AddCommand(newKeyCmd(app))
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute(app *App) {
	if err := NewRootCommand(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
