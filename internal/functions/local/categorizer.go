package local

import (
	"strings"

	"github.com/luo-one/inbox-agent/internal/database/models"
)

// Sender fallback rules, used when no indicator matches
const (
	trustedSenderSuffix    = ".org"
	trustedSenderSubstring = "board"
)

// Categorize assigns a category to an email.
// Rules are evaluated in order and the first match wins:
// marketing indicators, important indicators, then the sender fallback.
func Categorize(email models.Email) models.Category {
	combined := strings.ToLower(email.Subject + " " + email.Body)

	if MarketingIndicators.Matches(combined) {
		return models.CategoryMarketing
	}
	if ImportantIndicators.Matches(combined) {
		return models.CategoryImportant
	}
	return categorizeBySender(email.Sender)
}

// categorizeBySender treats .org senders and board addresses as important
func categorizeBySender(sender string) models.Category {
	if strings.HasSuffix(sender, trustedSenderSuffix) || strings.Contains(sender, trustedSenderSubstring) {
		return models.CategoryImportant
	}
	return models.CategoryMarketing
}

// CategoryReason explains which rule decided the category, for logging
func CategoryReason(email models.Email) string {
	combined := email.Subject + " " + email.Body
	if hits := MatchedKeywords(combined, MarketingIndicators.Keywords); len(hits) > 0 {
		return "marketing indicator: " + strings.Join(hits, ", ")
	}
	if hits := MatchedKeywords(combined, ImportantIndicators.Keywords); len(hits) > 0 {
		return "important indicator: " + strings.Join(hits, ", ")
	}
	return "sender fallback: " + string(categorizeBySender(email.Sender))
}
