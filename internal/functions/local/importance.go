package local

import (
	"unicode/utf8"

	"github.com/luo-one/inbox-agent/internal/database/models"
)

// Importance scoring constants
const (
	MarketingScore     = 5
	ImportantBaseScore = 65
	SubjectBonus       = 20
	BodyBonus          = 10
	LongBodyBonus      = 5
	LongBodyThreshold  = 500
	MaxImportanceScore = 100
)

// ScoreImportance returns the 0-100 importance score of an email in the given category.
// Marketing mail always scores MarketingScore. For important mail the subject and body
// bonuses are checked against their own field only.
func ScoreImportance(email models.Email, category models.Category) int {
	if category == models.CategoryMarketing {
		return MarketingScore
	}

	score := ImportantBaseScore
	if subjectEscalation.Matches(email.Subject) {
		score += SubjectBonus
	}
	if bodyTimeline.Matches(email.Body) {
		score += BodyBonus
	}
	// Length is in runes: an emoji counts once, not as a UTF-16 surrogate pair
	if utf8.RuneCountInString(email.Body) > LongBodyThreshold {
		score += LongBodyBonus
	}

	if score > MaxImportanceScore {
		score = MaxImportanceScore
	}
	return score
}
