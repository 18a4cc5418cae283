package local

import (
	"strings"
)

// IndicatorSet is a named list of substrings whose presence signals something
// about an email. Adding a term never requires touching the matcher.
type IndicatorSet struct {
	Name     string
	Keywords []string
}

// Matches reports whether text contains any keyword of the set
func (s IndicatorSet) Matches(text string) bool {
	return ContainsAny(text, s.Keywords)
}

// Indicator tables
var (
	// Marketing indicators take priority over important indicators
	MarketingIndicators = IndicatorSet{
		Name: "marketing",
		Keywords: []string{
			"unsubscribe", "sale", "deal", "promo", "limited time",
			"newsletter", "exclusive offer", "discount", "marketing",
			"growth hacker", "🔥", "🚀", "🌟",
		},
	}

	ImportantIndicators = IndicatorSet{
		Name: "important",
		Keywords: []string{
			"urgent", "quarterly", "meeting", "review", "compliance",
			"due diligence", "contract", "invoice", "documentation",
			"funding", "deadline",
		},
	}

	// Importance bonuses, checked against a single field each
	subjectEscalation = IndicatorSet{Name: "subject_escalation", Keywords: []string{"urgent", "due diligence", "compliance"}}
	bodyTimeline      = IndicatorSet{Name: "body_timeline", Keywords: []string{"deadline", "Friday", "documentation"}}

	// Unsubscribe policy evidence
	explicitOptOut = IndicatorSet{Name: "explicit_opt_out", Keywords: []string{"unsubscribe", "manage your subscription"}}
	bulkMailing    = IndicatorSet{Name: "bulk_mailing", Keywords: []string{"newsletter", "exclusive", "deal", "promo"}}
)

// ContainsAny reports whether text contains any of the keywords, ignoring case.
// This is plain substring search: "deal" matches "dealership".
func ContainsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	haystack := strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// MatchedKeywords returns every keyword of the list found in text, in list order
func MatchedKeywords(text string, keywords []string) []string {
	haystack := strings.ToLower(text)
	var matched []string
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(haystack, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}
	return matched
}
