package services

import (
	"context"

	"github.com/luo-one/inbox-agent/internal/database/models"
)

// SampleInbox returns the demo inbox used when no other source is configured.
// Every call returns fresh pending records.
func SampleInbox() []models.Email {
	return []models.Email{
		{
			ID:      "1",
			Sender:  "ceo@strategicpartners.com",
			Subject: "Quarterly partnership review meeting",
			Body: "Hi Alex,\n\n" +
				"We would like to schedule our quarterly partnership review to align on the roadmap, ensure compliance with the latest contractual obligations, and confirm the invoicing schedule for Q3. Please propose two time slots next week. In advance of the meeting, share the updated performance dashboard and a short summary of your strategic priorities.\n\n" +
				"Regards,\nPatricia Gomez\nChief Strategy Officer",
			ReceivedAt: "2024-03-12T09:15:00.000Z",
			Status:     models.StatusPending,
		},
		{
			ID:      "2",
			Sender:  "events@productlaunchhq.io",
			Subject: "🌟 Don’t miss our mega summer sale!",
			Body: "Hello!\n\n" +
				"You’re receiving this email because you signed up for our exclusive deals. Claim 65% off all accessories before midnight! If you’d rather not receive emails, click here.",
			ReceivedAt:      "2024-03-11T13:00:00.000Z",
			UnsubscribeLink: "https://productlaunchhq.io/unsubscribe",
			Status:          models.StatusPending,
		},
		{
			ID:      "3",
			Sender:  "compliance@clientcorp.org",
			Subject: "Urgent: Updated vendor due diligence questionnaire",
			Body: "Dear Vendor Partner,\n\n" +
				"ClientCorp must complete the annual due diligence review for all strategic vendors. Submit the attached questionnaire and evidence of ISO 27001 compliance by Friday, March 15. Missing the deadline may cause a temporary suspension of purchase orders.\n\n" +
				"Sincerely,\nCompliance Team",
			ReceivedAt: "2024-03-11T08:30:00.000Z",
			Status:     models.StatusPending,
		},
		{
			ID:      "4",
			Sender:  "newsletter@growthhacksdaily.com",
			Subject: "10 AI tools to grow your marketing list 🚀",
			Body: "Hey there growth hacker,\n\n" +
				"Ready to 10x your reach? We curated the hottest AI tools that marketers rave about. Want fewer emails? Manage your subscription preferences here.",
			ReceivedAt:      "2024-03-10T19:20:00.000Z",
			UnsubscribeLink: "https://growthhacksdaily.com/unsubscribe",
			Status:          models.StatusPending,
		},
		{
			ID:      "5",
			Sender:  "board@nonprofitalliance.org",
			Subject: "Follow-up on grant disbursement documentation",
			Body: "Good afternoon Alex,\n\n" +
				"Thank you for presenting the impact metrics last week. Please send the signed disbursement acknowledgement and the updated budget breakdown by Thursday so we can release the second tranche of funding.\n\n" +
				"Warm regards,\nBoard Secretariat",
			ReceivedAt: "2024-03-09T15:45:00.000Z",
			Status:     models.StatusPending,
		},
	}
}

// SampleSource serves the demo inbox
type SampleSource struct{}

// Name returns the source name
func (SampleSource) Name() string { return "sample" }

// Load returns the demo inbox
func (SampleSource) Load(ctx context.Context) ([]models.Email, error) {
	return SampleInbox(), ctx.Err()
}
