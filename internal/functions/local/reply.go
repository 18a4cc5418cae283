package local

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luo-one/inbox-agent/internal/database/models"
)

// DefaultSigner signs drafted replies when no other name is configured
const DefaultSigner = "Alex"

// Reply templates
const (
	acknowledgeTemplate = "Thank you for the update regarding \"%s\"."
	fallbackAskLine     = "I appreciate the detailed guidance you provided."
	commitmentTemplate  = "I will deliver the requested materials by %s and keep you updated on any progress."
	fallbackCommitLine  = "I will follow through promptly and confirm once everything is completed."
	askTemplate         = "I will %s."
)

var (
	openings = map[models.ToneLevel]string{
		models.ToneBalanced:   "Hello",
		models.ToneVeryFormal: "Dear",
	}

	closings = map[models.ToneLevel]string{
		models.ToneBalanced:   "Best regards",
		models.ToneVeryFormal: "Respectfully",
	}

	// Verbs that turn a sentence into an ask we can commit to
	actionVerbs = []string{
		"submit", "send", "share", "provide", "schedule",
		"propose", "complete", "deliver", "attach",
	}

	sentenceSplitPattern = regexp.MustCompile(`\.\s+|\n`)
	actionVerbPattern    = regexp.MustCompile(`(?i)(` + strings.Join(actionVerbs, "|") + `)`)
	verbPatterns         = compileVerbPatterns(actionVerbs)
	leadingPlease        = regexp.MustCompile(`(?i)^please\s*`)

	// Due-date hints, in priority order
	dueDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)[\w\s,]*`),
		// January and February are not listed; "by January 5" falls through to the relative pattern
		regexp.MustCompile(`(?i)\b(March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}\b`),
		regexp.MustCompile(`(?i)\b(next week|tomorrow|by \w+\s*\d{0,2}|within \d{1,2} days)\b`),
	}
)

// ReplyOptions controls the rendering of a drafted reply
type ReplyOptions struct {
	Tone   models.ToneLevel
	Signer string
}

// DraftReply builds a plain-text reply for an important email
func DraftReply(email models.Email, opts ReplyOptions) string {
	tone := opts.Tone
	if !tone.IsValid() {
		tone = models.ToneBalanced
	}
	signer := opts.Signer
	if signer == "" {
		signer = DefaultSigner
	}

	askLine := fallbackAskLine
	if ask, ok := ExtractAsk(email.Body); ok {
		askLine = ask
	}

	commitLine := fallbackCommitLine
	if hint, ok := ExtractDueDateHint(email.Body); ok {
		commitLine = fmt.Sprintf(commitmentTemplate, hint)
	}

	lines := []string{
		openings[tone] + " " + GreetingName(email.Sender) + ",",
		"",
		fmt.Sprintf(acknowledgeTemplate, strings.TrimSpace(email.Subject)),
		askLine,
		commitLine,
		"",
		closings[tone] + ",",
		signer,
	}
	return strings.Join(lines, "\n")
}

// GreetingName derives a first name from a sender address: the local part up to
// the first dot, capitalised.
func GreetingName(sender string) string {
	local, _, _ := strings.Cut(sender, "@")
	first, _, _ := strings.Cut(local, ".")
	return Capitalize(first)
}

// Capitalize upper-cases the first letter and lower-cases the rest
func Capitalize(word string) string {
	if word == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// ExtractAsk finds the first actionable sentence in body and restates it in the
// first person. It returns false when no sentence carries an action verb.
func ExtractAsk(body string) (string, bool) {
	sentence, ok := FindActionableSentence(body)
	if !ok {
		return "", false
	}
	return fmt.Sprintf(askTemplate, rewriteAsFirstPerson(sentence)), true
}

// FindActionableSentence returns the first sentence containing an action verb
func FindActionableSentence(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	for _, sentence := range sentenceSplitPattern.Split(body, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence != "" && actionVerbPattern.MatchString(sentence) {
			return sentence, true
		}
	}
	return "", false
}

// rewriteAsFirstPerson drops a leading "please" (a mid-sentence one is kept)
// and lower-cases the first occurrence of each action verb so the sentence
// reads after "I will".
func rewriteAsFirstPerson(sentence string) string {
	cleaned := leadingPlease.ReplaceAllString(sentence, "")
	for i, verb := range actionVerbs {
		cleaned = replaceFirst(verbPatterns[i], cleaned, verb)
	}
	// askTemplate adds its own period
	return strings.TrimSuffix(strings.TrimSpace(cleaned), ".")
}

func compileVerbPatterns(verbs []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(verbs))
	for i, verb := range verbs {
		patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(verb))
	}
	return patterns
}

// replaceFirst replaces only the leftmost match of pattern
func replaceFirst(pattern *regexp.Regexp, s, repl string) string {
	loc := pattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

// ExtractDueDateHint searches body for a due-date phrase. Weekday phrases win over
// explicit month dates, which win over relative phrases.
func ExtractDueDateHint(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	for _, pattern := range dueDatePatterns {
		if match := pattern.FindString(body); match != "" {
			hint := strings.TrimSpace(strings.TrimSuffix(match, "."))
			if hint != "" {
				return hint, true
			}
		}
	}
	return "", false
}
