package models

// Category is the triage bucket assigned to a processed email
type Category string

const (
	CategoryImportant Category = "important"
	CategoryMarketing Category = "marketing"
)

// IsValid checks if the category is one of the known buckets
func (c Category) IsValid() bool {
	switch c {
	case CategoryImportant, CategoryMarketing:
		return true
	}
	return false
}

// EmailStatus tracks whether an email went through the agent
type EmailStatus string

const (
	StatusPending   EmailStatus = "pending"
	StatusProcessed EmailStatus = "processed"
)

// AutoAction is the automated disposition chosen for a processed email
type AutoAction string

const (
	AutoActionNone        AutoAction = ""
	AutoActionReply       AutoAction = "reply"
	AutoActionUnsubscribe AutoAction = "unsubscribe"
)

// IsValid checks if the auto action is valid
func (a AutoAction) IsValid() bool {
	switch a {
	case AutoActionNone, AutoActionReply, AutoActionUnsubscribe:
		return true
	}
	return false
}

// Email represents one inbox message. Records are held in memory only.
type Email struct {
	ID              string      `json:"id"`
	Sender          string      `json:"sender"`
	Subject         string      `json:"subject"`
	Body            string      `json:"body"`
	ReceivedAt      string      `json:"receivedAt"` // ISO 8601
	Category        Category    `json:"category,omitempty"`
	ImportanceScore *int        `json:"importanceScore,omitempty"`
	UnsubscribeLink string      `json:"unsubscribeLink,omitempty"`
	ReplyDraft      string      `json:"replyDraft,omitempty"`
	Status          EmailStatus `json:"status,omitempty"`
	AutoAction      AutoAction  `json:"autoAction,omitempty"`
}

// HasUnsubscribeLink reports whether the source message carried an unsubscribe link
func (e Email) HasUnsubscribeLink() bool {
	return e.UnsubscribeLink != ""
}

// IsProcessed reports whether the email has been through a processing run
func (e Email) IsProcessed() bool {
	return e.Status == StatusProcessed
}

// Score returns the importance score, or -1 when the email is unscored
func (e Email) Score() int {
	if e.ImportanceScore == nil {
		return -1
	}
	return *e.ImportanceScore
}
