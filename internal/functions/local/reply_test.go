package local

import (
	"strings"
	"testing"

	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreetingName(t *testing.T) {
	assert.Equal(t, "Patricia", GreetingName("patricia.gomez@partners.com"))
	assert.Equal(t, "Ceo", GreetingName("CEO@strategicpartners.com"))
	assert.Equal(t, "Board", GreetingName("board@nonprofitalliance.org"))
	assert.Equal(t, "", GreetingName(""))
	assert.Equal(t, "Noatsign", GreetingName("noatsign"))
}

func TestExtractAsk(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name:   "leading please removed",
			body:   "Please submit the signed contract by Friday.",
			want:   "I will submit the signed contract by Friday.",
			wantOK: true,
		},
		{
			name:   "first actionable sentence wins",
			body:   "Thanks for the call. Please propose two time slots next week. Share the dashboard.",
			want:   "I will propose two time slots next week.",
			wantOK: true,
		},
		{
			name:   "verb lower-cased",
			body:   "Dear partner,\n\nSubmit the attached questionnaire by Friday, March 15. Thanks",
			want:   "I will submit the attached questionnaire by Friday, March 15.",
			wantOK: true,
		},
		{
			name:   "newline separated",
			body:   "Hello\nkindly SEND the report\nbye",
			want:   "I will kindly send the report.",
			wantOK: true,
		},
		{
			name:   "mid-sentence please kept",
			body:   "Could you please send the report",
			want:   "I will Could you please send the report.",
			wantOK: true,
		},
		{
			name:   "sentence period not doubled",
			body:   "Please deliver the deck by Friday.",
			want:   "I will deliver the deck by Friday.",
			wantOK: true,
		},
		{name: "no verbs", body: "Just saying hi. Hope you are well.", wantOK: false},
		{name: "empty body", body: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAsk(tt.body)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDueDateHint(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"weekday", "Please submit the signed contract by Friday.", "Friday", true},
		{"weekday with trailing words", "Submit it by Friday, March 15. Thanks", "Friday, March 15", true},
		{"weekday beats month", "On March 3 we meet, and by thursday you reply.", "thursday you reply", true},
		{"explicit month", "The filing is due April 30 at noon.", "April 30", true},
		{"next week", "Please propose two time slots next week.", "next week", true},
		{"tomorrow", "Send it tomorrow please.", "tomorrow", true},
		{"within days", "Reply within 3 days.", "within 3 days", true},
		{"january falls back to relative", "Send the filing by January 5 at the latest", "by January 5", true},
		{"february falls back to relative", "Due by February 12", "by February 12", true},
		{"march is a month date", "Due on March 12", "March 12", true},
		{"by word", "We need it by EOD.", "by EOD", true},
		{"none", "Nothing time-bound here", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDueDateHint(tt.body)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDraftReply(t *testing.T) {
	email := models.Email{
		Sender:  "patricia.gomez@partners.com",
		Subject: "  Urgent: contract review ",
		Body:    "Please submit the signed contract by Friday.",
	}

	draft := DraftReply(email, ReplyOptions{Tone: models.ToneBalanced})
	lines := strings.Split(draft, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Hello Patricia,", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, `Thank you for the update regarding "Urgent: contract review".`, lines[2])
	assert.Equal(t, "I will submit the signed contract by Friday.", lines[3])
	assert.Equal(t, "I will deliver the requested materials by Friday and keep you updated on any progress.", lines[4])
	assert.Equal(t, "", lines[5])
	assert.Equal(t, "Best regards,", lines[6])
	assert.Equal(t, DefaultSigner, lines[7])

	formal := DraftReply(email, ReplyOptions{Tone: models.ToneVeryFormal, Signer: "Jordan"})
	assert.True(t, strings.HasPrefix(formal, "Dear Patricia,\n"))
	assert.True(t, strings.HasSuffix(formal, "Respectfully,\nJordan"))
}

func TestDraftReplyFallbacks(t *testing.T) {
	email := models.Email{Sender: "board@alliance.org", Subject: "Hi", Body: "Hope all is well"}

	draft := DraftReply(email, ReplyOptions{Tone: "unknown"})
	assert.Contains(t, draft, "Hello Board,")
	assert.Contains(t, draft, fallbackAskLine)
	assert.Contains(t, draft, fallbackCommitLine)
}

func TestDraftReplyAskLineEndsWithSinglePeriod(t *testing.T) {
	draft := DraftReply(models.Email{
		Sender:  "dana@firm.com",
		Subject: "Contract",
		Body:    "Please submit the contract review by Friday.",
	}, ReplyOptions{})

	lines := strings.Split(draft, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "I will submit the contract review by Friday.", lines[3])
	assert.NotContains(t, draft, "..")
}
