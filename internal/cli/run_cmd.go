package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/functions"
	"github.com/luo-one/inbox-agent/internal/services"
	"github.com/spf13/cobra"
)

const (
	sourceSample = "sample"
	sourceJSON   = "json"
	sourceEML    = "eml"
	sourceIMAP   = "imap"
)

type runFlags struct {
	source         string
	path           string
	tone           string
	aggressiveness string
	asJSON         bool
	timeout        time.Duration
}

func newRunCmd(app *App) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Triage an inbox once and print the result",
		Long: `Load an inbox, categorize and score every email, draft replies for
important mail and apply the unsubscribe policy to marketing mail.

Sources:
  sample   the built-in five-message inbox
  json     a JSON array of email records (--path)
  eml      a directory of .eml files (--path)
  imap     the mailbox configured under imap in the config file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInbox(cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source", "s", sourceSample, "email source: sample, json, eml or imap")
	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "file or directory for the json and eml sources")
	cmd.Flags().StringVar(&flags.tone, "tone", "", "reply tone: balanced or very_formal")
	cmd.Flags().StringVar(&flags.aggressiveness, "aggressiveness", "", "unsubscribe policy: conservative, balanced or aggressive")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 2*time.Minute, "give up loading the source after this long")

	return cmd
}

func runInbox(cmd *cobra.Command, app *App, flags *runFlags) error {
	opts := functions.AgentOptions{
		FormalToneLevel:           models.ToneLevel(flags.tone),
		UnsubscribeAggressiveness: models.Aggressiveness(flags.aggressiveness),
	}
	if flags.tone != "" && !opts.FormalToneLevel.IsValid() {
		return fmt.Errorf("unknown tone %q", flags.tone)
	}
	if flags.aggressiveness != "" && !opts.UnsubscribeAggressiveness.IsValid() {
		return fmt.Errorf("unknown aggressiveness %q", flags.aggressiveness)
	}

	src, err := buildSource(app, flags)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
	defer cancel()

	emails, err := services.LoadInbox(ctx, src, app.LogService)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}

	inbox := services.NewInboxService(
		functions.NewProcessor(app.Config.SignerName),
		services.DefaultsFromConfig(app.Config),
		app.LogService,
	)
	inbox.Replace(emails)

	result, err := inbox.Run(&opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	st := newStyles(out)
	now := time.Now()
	renderSummary(out, st, result.Summary, len(result.Emails))
	for _, email := range result.Emails {
		fmt.Fprintln(out)
		renderEmail(out, st, email, now)
	}
	return nil
}

func buildSource(app *App, flags *runFlags) (services.Source, error) {
	switch flags.source {
	case sourceSample, "":
		return services.SampleSource{}, nil
	case sourceJSON:
		if flags.path == "" {
			return nil, fmt.Errorf("--path is required for the %s source", sourceJSON)
		}
		return services.JSONFileSource{Path: flags.path}, nil
	case sourceEML:
		if flags.path == "" {
			return nil, fmt.Errorf("--path is required for the %s source", sourceEML)
		}
		return services.EMLDirSource{Dir: flags.path}, nil
	case sourceIMAP:
		if !app.Config.IMAP.Enabled() {
			return nil, fmt.Errorf("imap host and username must be configured")
		}
		return services.NewIMAPSource(app.Config.IMAP), nil
	default:
		return nil, fmt.Errorf("unknown source %q", flags.source)
	}
}
