package functions

import (
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/functions/local"
)

// AgentOptions holds run-scoped configuration. Zero-valued fields fall back to
// balanced.
type AgentOptions struct {
	FormalToneLevel           models.ToneLevel      `json:"formalToneLevel,omitempty"`
	UnsubscribeAggressiveness models.Aggressiveness `json:"unsubscribeAggressiveness,omitempty"`
}

// DefaultAgentOptions returns the options used when a caller supplies none
func DefaultAgentOptions() AgentOptions {
	return AgentOptions{
		FormalToneLevel:           models.ToneBalanced,
		UnsubscribeAggressiveness: models.AggressivenessBalanced,
	}
}

// withDefaults fills unset or unknown fields
func (o AgentOptions) withDefaults() AgentOptions {
	defaults := DefaultAgentOptions()
	if !o.FormalToneLevel.IsValid() {
		o.FormalToneLevel = defaults.FormalToneLevel
	}
	if !o.UnsubscribeAggressiveness.IsValid() {
		o.UnsubscribeAggressiveness = defaults.UnsubscribeAggressiveness
	}
	return o
}

// RunSummary holds the aggregate counts of one processing run
type RunSummary struct {
	ImportantCount   int `json:"importantCount"`
	MarketingCount   int `json:"marketingCount"`
	AutoReplies      int `json:"autoReplies"`
	AutoUnsubscribes int `json:"autoUnsubscribes"`
	Pending          int `json:"pending"`
}

// ProcessResult is the output of one processing run
type ProcessResult struct {
	Emails  []models.Email `json:"emails"`
	Summary RunSummary     `json:"summary"`
}

// Processor runs the triage pipeline. It holds no per-run state and is safe to
// reuse across runs.
type Processor struct {
	signer string
}

// NewProcessor creates a Processor that signs drafted replies with signer
func NewProcessor(signer string) *Processor {
	if signer == "" {
		signer = local.DefaultSigner
	}
	return &Processor{signer: signer}
}

// ProcessInbox runs every email through the default processor. A nil opts means
// balanced tone and balanced aggressiveness.
func ProcessInbox(emails []models.Email, opts *AgentOptions) ProcessResult {
	return NewProcessor(local.DefaultSigner).Process(emails, opts)
}

// Process categorizes, scores and dispositions each email in input order.
// The input slice and its records are never modified; the result holds copies.
func (p *Processor) Process(emails []models.Email, opts *AgentOptions) ProcessResult {
	options := DefaultAgentOptions()
	if opts != nil {
		options = opts.withDefaults()
	}

	processed := make([]models.Email, len(emails))
	for i, email := range emails {
		processed[i] = p.processEmail(email, options)
	}

	return ProcessResult{
		Emails:  processed,
		Summary: Summarize(processed),
	}
}

// processEmail produces a fully replaced record for one email
func (p *Processor) processEmail(email models.Email, options AgentOptions) models.Email {
	category := local.Categorize(email)
	score := local.ScoreImportance(email, category)

	next := email
	next.Category = category
	next.ImportanceScore = &score
	next.Status = models.StatusProcessed
	next.AutoAction = models.AutoActionNone
	next.ReplyDraft = ""

	if category == models.CategoryImportant {
		next.ReplyDraft = local.DraftReply(email, local.ReplyOptions{
			Tone:   options.FormalToneLevel,
			Signer: p.signer,
		})
		next.AutoAction = models.AutoActionReply
		return next
	}

	if local.ShouldUnsubscribe(email, options.UnsubscribeAggressiveness) {
		next.AutoAction = models.AutoActionUnsubscribe
	}
	return next
}

// Summarize counts categories and auto actions over a processed collection
func Summarize(emails []models.Email) RunSummary {
	var summary RunSummary
	for _, email := range emails {
		switch email.Category {
		case models.CategoryImportant:
			summary.ImportantCount++
		case models.CategoryMarketing:
			summary.MarketingCount++
		}

		switch email.AutoAction {
		case models.AutoActionReply:
			summary.AutoReplies++
		case models.AutoActionUnsubscribe:
			summary.AutoUnsubscribes++
		default:
			summary.Pending++
		}
	}
	return summary
}
