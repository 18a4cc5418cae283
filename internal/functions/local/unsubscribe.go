package local

import (
	"github.com/luo-one/inbox-agent/internal/database/models"
)

// ShouldUnsubscribe decides whether a marketing email is marked for unsubscription.
//
//	link   | conservative          | balanced               | aggressive
//	absent | no                    | no                     | yes
//	present| explicit opt-out body | bulk-mailing wording   | yes
//
// Unknown levels behave as balanced.
func ShouldUnsubscribe(email models.Email, level models.Aggressiveness) bool {
	if !level.IsValid() {
		level = models.AggressivenessBalanced
	}

	if !email.HasUnsubscribeLink() {
		return level == models.AggressivenessAggressive
	}

	switch level {
	case models.AggressivenessConservative:
		return explicitOptOut.Matches(email.Body)
	case models.AggressivenessAggressive:
		return true
	default:
		// subject and body are joined without a separator
		return bulkMailing.Matches(email.Subject + email.Body)
	}
}
