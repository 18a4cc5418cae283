package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/luo-one/inbox-agent/internal/config"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/functions"
	"github.com/luo-one/inbox-agent/internal/functions/local"
)

var (
	// ErrRunInProgress indicates another processing run has not finished yet
	ErrRunInProgress = errors.New("agent run already in progress")
	// ErrEmailNotFound indicates the email was not found
	ErrEmailNotFound = errors.New("email not found")
	// ErrInvalidEmailData indicates invalid email data
	ErrInvalidEmailData = errors.New("invalid email data")
	// ErrInvalidOptions indicates an unknown tone or aggressiveness value
	ErrInvalidOptions = errors.New("invalid agent options")
)

// InjectEmailInput is a message typed in by a user
type InjectEmailInput struct {
	Sender          string
	Subject         string
	Body            string
	UnsubscribeLink string
}

// InboxService holds the in-memory inbox for a session and runs the agent over it.
// A busy flag rejects overlapping runs; the processor itself keeps no state.
type InboxService struct {
	mu         sync.RWMutex
	emails     []models.Email
	lastResult *functions.ProcessResult
	running    atomic.Bool

	processor  *functions.Processor
	defaults   functions.AgentOptions
	logService *LogService
	now        func() time.Time
}

// NewInboxService creates a new InboxService instance
func NewInboxService(processor *functions.Processor, defaults functions.AgentOptions, logService *LogService) *InboxService {
	if processor == nil {
		processor = functions.NewProcessor(local.DefaultSigner)
	}
	fallback := functions.DefaultAgentOptions()
	if !defaults.FormalToneLevel.IsValid() {
		defaults.FormalToneLevel = fallback.FormalToneLevel
	}
	if !defaults.UnsubscribeAggressiveness.IsValid() {
		defaults.UnsubscribeAggressiveness = fallback.UnsubscribeAggressiveness
	}
	return &InboxService{
		processor:  processor,
		defaults:   defaults,
		logService: logService,
		now:        time.Now,
	}
}

// Emails returns a copy of the current inbox
func (s *InboxService) Emails() []models.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEmails(s.emails)
}

// Replace swaps the whole inbox, typically after loading from a source
func (s *InboxService) Replace(emails []models.Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = cloneEmails(emails)
	s.lastResult = nil
}

// UnresolvedCount returns the number of emails without an auto action
func (s *InboxService) UnresolvedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, email := range s.emails {
		if email.AutoAction == models.AutoActionNone {
			count++
		}
	}
	return count
}

// Inject adds a new pending email at the top of the inbox
func (s *InboxService) Inject(input InjectEmailInput) (models.Email, error) {
	sender := strings.TrimSpace(input.Sender)
	if sender == "" || strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Body) == "" {
		return models.Email{}, fmt.Errorf("%w: sender, subject and body are required", ErrInvalidEmailData)
	}

	email := models.Email{
		ID:              uuid.NewString(),
		Sender:          sender,
		Subject:         input.Subject,
		Body:            input.Body,
		ReceivedAt:      FormatTimestamp(s.now()),
		UnsubscribeLink: strings.TrimSpace(input.UnsubscribeLink),
		Status:          models.StatusPending,
	}

	s.mu.Lock()
	s.emails = append([]models.Email{email}, s.emails...)
	s.lastResult = nil
	s.mu.Unlock()

	s.log(func(l *LogService) error { return l.LogEmailInjected(email) })
	return email, nil
}

// Remove deletes an email from the inbox
func (s *InboxService) Remove(id string) error {
	s.mu.Lock()
	removed := false
	for i, email := range s.emails {
		if email.ID == id {
			s.emails = append(s.emails[:i:i], s.emails[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if !removed {
		return ErrEmailNotFound
	}
	s.log(func(l *LogService) error { return l.LogEmailRemoved(id) })
	return nil
}

// IsRunning reports whether a processing run is in flight
func (s *InboxService) IsRunning() bool {
	return s.running.Load()
}

// Run processes the whole inbox. It fails with ErrRunInProgress rather than
// racing another run on the same inbox.
func (s *InboxService) Run(opts *functions.AgentOptions) (functions.ProcessResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return functions.ProcessResult{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	options := s.resolveOptions(opts)
	snapshot := s.Emails()

	started := s.now()
	result := s.processor.Process(snapshot, &options)
	elapsed := s.now().Sub(started)

	s.mu.Lock()
	s.emails = mergeInjected(result.Emails, snapshot, s.emails)
	stored := result
	stored.Emails = cloneEmails(result.Emails)
	s.lastResult = &stored
	s.mu.Unlock()

	s.log(func(l *LogService) error { return l.LogAgentRun(options, result, elapsed) })
	for _, email := range result.Emails {
		email := email
		s.log(func(l *LogService) error { return l.LogEmailDecision(email, local.CategoryReason(email)) })
	}

	return result, nil
}

// LastResult returns the result of the latest run, if it is still current
func (s *InboxService) LastResult() (functions.ProcessResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastResult == nil {
		return functions.ProcessResult{}, false
	}
	result := *s.lastResult
	result.Emails = cloneEmails(result.Emails)
	return result, true
}

// DefaultsFromConfig reads the configured run defaults. Unknown values fall
// back to balanced when a run resolves its options.
func DefaultsFromConfig(cfg *config.Config) functions.AgentOptions {
	return functions.AgentOptions{
		FormalToneLevel:           models.ToneLevel(cfg.DefaultTone),
		UnsubscribeAggressiveness: models.Aggressiveness(cfg.DefaultAggressiveness),
	}
}

// Defaults returns the options applied when a run does not override them
func (s *InboxService) Defaults() functions.AgentOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// UpdateDefaults changes the session defaults. Empty fields are left as they are.
func (s *InboxService) UpdateDefaults(update functions.AgentOptions) (functions.AgentOptions, error) {
	if update.FormalToneLevel != "" && !update.FormalToneLevel.IsValid() {
		return functions.AgentOptions{}, fmt.Errorf("%w: tone %q", ErrInvalidOptions, update.FormalToneLevel)
	}
	if update.UnsubscribeAggressiveness != "" && !update.UnsubscribeAggressiveness.IsValid() {
		return functions.AgentOptions{}, fmt.Errorf("%w: aggressiveness %q", ErrInvalidOptions, update.UnsubscribeAggressiveness)
	}

	s.mu.Lock()
	if update.FormalToneLevel != "" {
		s.defaults.FormalToneLevel = update.FormalToneLevel
	}
	if update.UnsubscribeAggressiveness != "" {
		s.defaults.UnsubscribeAggressiveness = update.UnsubscribeAggressiveness
	}
	defaults := s.defaults
	s.mu.Unlock()

	s.log(func(l *LogService) error {
		return l.LogInfo(models.LogModuleAgent, "defaults_update", "Agent defaults updated", defaults)
	})
	return defaults, nil
}

// resolveOptions layers per-run options over the configured defaults
func (s *InboxService) resolveOptions(opts *functions.AgentOptions) functions.AgentOptions {
	options := s.Defaults()
	if opts != nil {
		if opts.FormalToneLevel != "" {
			options.FormalToneLevel = opts.FormalToneLevel
		}
		if opts.UnsubscribeAggressiveness != "" {
			options.UnsubscribeAggressiveness = opts.UnsubscribeAggressiveness
		}
	}
	defaults := functions.DefaultAgentOptions()
	if !options.FormalToneLevel.IsValid() {
		options.FormalToneLevel = defaults.FormalToneLevel
	}
	if !options.UnsubscribeAggressiveness.IsValid() {
		options.UnsubscribeAggressiveness = defaults.UnsubscribeAggressiveness
	}
	return options
}

func (s *InboxService) log(fn func(*LogService) error) {
	if s.logService != nil {
		_ = fn(s.logService)
	}
}

// mergeInjected keeps emails added while a run was in flight on top of the
// processed set; emails removed in the meantime stay removed.
func mergeInjected(processed, snapshot, current []models.Email) []models.Email {
	seen := make(map[string]bool, len(snapshot))
	for _, email := range snapshot {
		seen[email.ID] = true
	}
	present := make(map[string]bool, len(current))
	var injected []models.Email
	for _, email := range current {
		present[email.ID] = true
		if !seen[email.ID] {
			injected = append(injected, email)
		}
	}

	merged := make([]models.Email, 0, len(injected)+len(processed))
	merged = append(merged, injected...)
	for _, email := range processed {
		if present[email.ID] {
			merged = append(merged, email)
		}
	}
	return merged
}

func cloneEmails(emails []models.Email) []models.Email {
	if emails == nil {
		return nil
	}
	out := make([]models.Email, len(emails))
	for i, email := range emails {
		if email.ImportanceScore != nil {
			score := *email.ImportanceScore
			email.ImportanceScore = &score
		}
		out[i] = email
	}
	return out
}

// timestampLayout matches the ISO 8601 form used by the sample data
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC as an ISO 8601 string with milliseconds
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp parses an ISO 8601 timestamp as produced by FormatTimestamp or RFC 3339
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
