package local

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/luo-one/inbox-agent/internal/database/models"
)

// Property: categorization always yields a valid category, is deterministic, and
// marketing indicators win over important indicators.

func TestProperty_CategorizationValidity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	// Digits only, so generated text never contains an indicator by accident
	neutralGen := gen.SliceOfN(40, gen.NumChar()).Map(func(chars []rune) string {
		return string(chars)
	})

	textGen := gen.SliceOfN(60, gen.AlphaChar()).Map(func(chars []rune) string {
		return string(chars)
	})

	senderGen := gen.SliceOfN(10, gen.AlphaLowerChar()).Map(func(chars []rune) string {
		return string(chars) + "@example.com"
	})

	properties.Property("category_always_valid", prop.ForAll(
		func(subject, body, sender string) bool {
			email := models.Email{Sender: sender, Subject: subject, Body: body}
			return Categorize(email).IsValid()
		},
		textGen,
		textGen,
		senderGen,
	))

	properties.Property("categorization_deterministic", prop.ForAll(
		func(subject, body, sender string) bool {
			email := models.Email{Sender: sender, Subject: subject, Body: body}
			return Categorize(email) == Categorize(email)
		},
		textGen,
		textGen,
		senderGen,
	))

	properties.Property("marketing_wins_over_important", prop.ForAll(
		func(neutral string, mi, ii int) bool {
			marketing := MarketingIndicators.Keywords[mi]
			important := ImportantIndicators.Keywords[ii]
			email := models.Email{
				Sender:  "compliance@clientcorp.org",
				Subject: important + " " + neutral,
				Body:    neutral + " " + marketing,
			}
			return Categorize(email) == models.CategoryMarketing
		},
		neutralGen,
		gen.IntRange(0, len(MarketingIndicators.Keywords)-1),
		gen.IntRange(0, len(ImportantIndicators.Keywords)-1),
	))

	properties.Property("important_indicator_without_marketing", prop.ForAll(
		func(neutral string, ii int) bool {
			email := models.Email{
				Sender:  "info@random.net",
				Subject: neutral,
				Body:    strings.ToUpper(ImportantIndicators.Keywords[ii]),
			}
			return Categorize(email) == models.CategoryImportant
		},
		neutralGen,
		gen.IntRange(0, len(ImportantIndicators.Keywords)-1),
	))

	properties.Property("neutral_text_uses_sender_fallback", prop.ForAll(
		func(subject, body, local string) bool {
			org := models.Email{Sender: local + "@alliance.org", Subject: subject, Body: body}
			board := models.Email{Sender: "board" + local + "@corp.net", Subject: subject, Body: body}
			other := models.Email{Sender: local + "@random.net", Subject: subject, Body: body}
			return Categorize(org) == models.CategoryImportant &&
				Categorize(board) == models.CategoryImportant &&
				Categorize(other) == models.CategoryMarketing
		},
		neutralGen,
		neutralGen,
		neutralGen,
	))

	properties.TestingRun(t)
}
