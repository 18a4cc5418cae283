package functions

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/luo-one/inbox-agent/internal/database/models"
)

// Property: every processed email carries a category and an in-range score, and
// auto actions agree with categories.

func TestProperty_ProcessedEmailInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	words := []string{
		"hello", "urgent", "sale", "newsletter", "meeting", "Friday",
		"please submit the report", "discount", "deadline", "🚀", "manage your subscription",
	}
	textGen := gen.SliceOfN(6, gen.IntRange(0, len(words)-1)).Map(func(picks []int) string {
		chosen := make([]string, len(picks))
		for i, pick := range picks {
			chosen[i] = words[pick]
		}
		return strings.Join(chosen, " ")
	})
	senderGen := gen.OneConstOf("info@random.net", "board@alliance.org", "ceo@partners.com", "team@charity.org")
	linkGen := gen.OneConstOf("", "https://example.com/unsubscribe")
	toneGen := gen.OneConstOf(models.ToneBalanced, models.ToneVeryFormal)
	levelGen := gen.OneConstOf(
		models.AggressivenessConservative,
		models.AggressivenessBalanced,
		models.AggressivenessAggressive,
	)

	properties.Property("processed_email_invariants", prop.ForAll(
		func(subject, body, sender, link string, tone models.ToneLevel, level models.Aggressiveness) bool {
			email := models.Email{ID: "p", Sender: sender, Subject: subject, Body: body, UnsubscribeLink: link}
			result := ProcessInbox([]models.Email{email}, &AgentOptions{
				FormalToneLevel:           tone,
				UnsubscribeAggressiveness: level,
			})
			got := result.Emails[0]

			if !got.Category.IsValid() || got.ImportanceScore == nil {
				return false
			}
			score := *got.ImportanceScore
			if score < 0 || score > 100 {
				return false
			}
			if got.Status != models.StatusProcessed {
				return false
			}

			switch got.Category {
			case models.CategoryMarketing:
				if score != 5 || got.AutoAction == models.AutoActionReply || got.ReplyDraft != "" {
					return false
				}
				if level == models.AggressivenessAggressive && got.AutoAction != models.AutoActionUnsubscribe {
					return false
				}
				if level == models.AggressivenessConservative && link == "" && got.AutoAction != models.AutoActionNone {
					return false
				}
			case models.CategoryImportant:
				if score < 65 || got.AutoAction != models.AutoActionReply || got.ReplyDraft == "" {
					return false
				}
			}
			return true
		},
		textGen,
		textGen,
		senderGen,
		linkGen,
		toneGen,
		levelGen,
	))

	properties.Property("summary_counts_match_output", prop.ForAll(
		func(subjects []string, sender string) bool {
			inbox := make([]models.Email, len(subjects))
			for i, s := range subjects {
				inbox[i] = models.Email{Sender: sender, Subject: s, Body: s}
			}
			result := ProcessInbox(inbox, nil)
			sum := result.Summary
			return sum.ImportantCount+sum.MarketingCount == len(inbox) &&
				sum.AutoReplies+sum.AutoUnsubscribes+sum.Pending == len(inbox) &&
				sum.AutoReplies == sum.ImportantCount
		},
		gen.SliceOf(textGen),
		senderGen,
	))

	properties.TestingRun(t)
}
