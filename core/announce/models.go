package announce

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/almaconnect/alumnet/core"
)

// Announcement is an institution-published event notice.
type Announcement struct {
	ID          string    `json:"id" firestore:"-"`
	EventName   string    `json:"event_name" firestore:"eventName"`
	Description string    `json:"description" firestore:"description"`
	Date        string    `json:"date" firestore:"date"`
	Time        string    `json:"time" firestore:"time"`
	Venue       string    `json:"venue" firestore:"venue"`
	Guests      string    `json:"guests" firestore:"guests"`
	Image       string    `json:"image" firestore:"image"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

// Campaign is a donation drive. Money never moves here: pledges are
// recorded figures only.
type Campaign struct {
	ID            string    `json:"id" firestore:"-"`
	Title         string    `json:"title" firestore:"title"`
	Description   string    `json:"description" firestore:"description"`
	TargetAmount  float64   `json:"target_amount" firestore:"targetAmount"`
	CurrentAmount float64   `json:"current_amount" firestore:"currentAmount"`
	Deadline      string    `json:"deadline" firestore:"deadline"`
	IsActive      bool      `json:"is_active" firestore:"isActive"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}

type NewAnnouncement struct {
	EventName   string `json:"event_name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Guests      string `json:"guests"`
	Image       string `json:"image" validate:"omitempty,url"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.EventName = core.CleanString(na.EventName)
	na.Description = core.CleanString(na.Description)
	na.Venue = core.CleanString(na.Venue)
	na.Guests = core.CleanString(na.Guests)
	return validate.Struct(na)
}

type NewCampaign struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
	Deadline     string  `json:"deadline" validate:"required"`
}

func (nc *NewCampaign) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// Pledge records an intended donation against a campaign.
type Pledge struct {
	CampaignID string  `json:"campaign_id" validate:"required"`
	DonorID    string  `json:"donor_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

func (p *Pledge) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}
