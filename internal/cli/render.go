package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/functions"
	"github.com/luo-one/inbox-agent/internal/services"
)

// styles are bound to the output writer so color is dropped when it is not a terminal
type styles struct {
	important lipgloss.Style
	marketing lipgloss.Style
	action    lipgloss.Style
	dim       lipgloss.Style
	heading   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		important: r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		marketing: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"}),
		action:    r.NewStyle().Foreground(lipgloss.Color("63")),
		dim:       r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "238"}),
		heading:   r.NewStyle().Bold(true),
	}
}

// receivedAgo renders a timestamp as "3 hours ago", or the raw value if it cannot be parsed
func receivedAgo(value string, now time.Time) string {
	t, err := services.ParseTimestamp(value)
	if err != nil {
		return value
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func renderSummary(out io.Writer, st styles, summary functions.RunSummary, total int) {
	fmt.Fprintln(out, st.heading.Render(fmt.Sprintf("Processed %d emails", total)))
	fmt.Fprintf(out, "  important: %d  marketing: %d\n", summary.ImportantCount, summary.MarketingCount)
	fmt.Fprintf(out, "  replies drafted: %d  unsubscribes: %d  pending: %d\n",
		summary.AutoReplies, summary.AutoUnsubscribes, summary.Pending)
}

func renderEmail(out io.Writer, st styles, email models.Email, now time.Time) {
	label := st.marketing.Render(fmt.Sprintf("%-9s", email.Category))
	if email.Category == models.CategoryImportant {
		label = st.important.Render(fmt.Sprintf("%-9s", email.Category))
	}

	action := string(email.AutoAction)
	if action == "" {
		action = "none"
	}

	fmt.Fprintf(out, "%s %3d  %s  %s\n", label, email.Score(), st.action.Render(fmt.Sprintf("%-11s", action)), email.Subject)
	fmt.Fprintf(out, "    %s\n", st.dim.Render(fmt.Sprintf("from %s, %s", email.Sender, receivedAgo(email.ReceivedAt, now))))

	if email.AutoAction == models.AutoActionUnsubscribe && email.UnsubscribeLink != "" {
		fmt.Fprintf(out, "    unsubscribe: %s\n", email.UnsubscribeLink)
	}
	if email.ReplyDraft != "" {
		for _, line := range strings.Split(email.ReplyDraft, "\n") {
			fmt.Fprintf(out, "    | %s\n", line)
		}
	}
}
