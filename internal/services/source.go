package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/luo-one/inbox-agent/internal/database/models"
)

// ErrSourceUnavailable indicates an email source could not be read
var ErrSourceUnavailable = errors.New("email source unavailable")

// Source supplies an ordered list of emails
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Email, error)
}

// LoadInbox reads a source, normalises the records and logs the outcome
func LoadInbox(ctx context.Context, src Source, logService *LogService) ([]models.Email, error) {
	emails, err := src.Load(ctx)
	if err == nil {
		emails, err = normalizeIncoming(emails)
	}
	if logService != nil {
		_ = logService.LogSourceLoad(src.Name(), len(emails), err)
	}
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// normalizeIncoming gives every record an identifier and a status and rejects
// duplicate identifiers. Records already processed keep their status.
func normalizeIncoming(emails []models.Email) ([]models.Email, error) {
	seen := make(map[string]bool, len(emails))
	out := make([]models.Email, len(emails))
	for i, email := range emails {
		email.ID = strings.TrimSpace(email.ID)
		if email.ID == "" {
			email.ID = uuid.NewString()
		}
		if seen[email.ID] {
			return nil, fmt.Errorf("%w: duplicate email id %q", ErrInvalidEmailData, email.ID)
		}
		seen[email.ID] = true

		if email.Status != models.StatusProcessed {
			email.Status = models.StatusPending
		}
		if email.Category != "" && !email.Category.IsValid() {
			return nil, fmt.Errorf("%w: email %q has unknown category %q", ErrInvalidEmailData, email.ID, email.Category)
		}
		out[i] = email
	}
	return out, nil
}

// JSONFileSource reads a JSON array of email records
type JSONFileSource struct {
	Path string
}

// Name returns the source name
func (s JSONFileSource) Name() string { return "json:" + s.Path }

// Load reads and decodes the file
func (s JSONFileSource) Load(ctx context.Context) ([]models.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var emails []models.Email
	if err := json.Unmarshal(data, &emails); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmailData, err)
	}
	return emails, nil
}
