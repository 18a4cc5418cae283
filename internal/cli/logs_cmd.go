package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/luo-one/inbox-agent/internal/services"
	"github.com/spf13/cobra"
)

func newLogsCmd(app *App) *cobra.Command {
	var query services.LogQuery

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent operational logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.LogService == nil {
				return errors.New("log service not initialized")
			}
			result, err := app.LogService.QueryLogs(query)
			if err != nil {
				return fmt.Errorf("query logs: %w", err)
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)
			now := time.Now()
			fmt.Fprintln(out, st.heading.Render(fmt.Sprintf("%d of %d log entries", len(result.Logs), result.Total)))
			for _, entry := range result.Logs {
				fmt.Fprintf(out, "%-5s %-7s %-16s %s %s\n",
					entry.Level, entry.Module, entry.Action, entry.Message,
					st.dim.Render("("+humanize.RelTime(entry.CreatedAt, now, "ago", "from now")+")"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Level, "level", "", "only entries at this level")
	cmd.Flags().StringVar(&query.Module, "module", "", "only entries from this module (agent, inbox, source, api, cli)")
	cmd.Flags().StringVar(&query.Action, "action", "", "only entries with this action")
	cmd.Flags().IntVarP(&query.Limit, "limit", "n", 20, "number of entries to show")

	return cmd
}
