package announce

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core"
)

var ErrNotFound = errors.New("record not found")

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		QueryAnnouncements(ctx context.Context) ([]Announcement, error) // createdAt desc
		DeleteAnnouncement(ctx context.Context, id string) error

		CreateCampaign(ctx context.Context, c Campaign) (Campaign, error)
		GetCampaign(ctx context.Context, id string) (Campaign, error)
		QueryCampaigns(ctx context.Context) ([]Campaign, error) // createdAt desc
		UpdateCampaign(ctx context.Context, c Campaign) (Campaign, error)
		DeleteCampaign(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, logger: logger}
}

// CreateAnnouncement publishes a notice and mails the given recipients.
func (svc *Service) CreateAnnouncement(ctx context.Context, na NewAnnouncement, notify []mail.Address) (Announcement, error) {
	ann := Announcement{
		EventName:   na.EventName,
		Description: na.Description,
		Date:        na.Date,
		Time:        na.Time,
		Venue:       na.Venue,
		Guests:      na.Guests,
		Image:       na.Image,
		CreatedAt:   time.Now().UTC(),
	}
	ann, err := svc.repo.CreateAnnouncement(ctx, ann)
	if err != nil {
		return Announcement{}, err
	}

	if len(notify) > 0 {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      notify,
			Subject: "New announcement: " + ann.EventName,
			TextContent: fmt.Sprintf(
				"%s\n\nWhen: %s %s\nWhere: %s\n\n%s",
				ann.EventName, ann.Date, ann.Time, ann.Venue, ann.Description,
			),
		})
	}
	return ann, nil
}

func (svc *Service) QueryAnnouncements(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx)
}

func (svc *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	return svc.repo.DeleteAnnouncement(ctx, id)
}

func (svc *Service) CreateCampaign(ctx context.Context, nc NewCampaign) (Campaign, error) {
	camp := Campaign{
		Title:        nc.Title,
		Description:  nc.Description,
		TargetAmount: nc.TargetAmount,
		Deadline:     nc.Deadline,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateCampaign(ctx, camp)
}

func (svc *Service) QueryCampaigns(ctx context.Context) ([]Campaign, error) {
	return svc.repo.QueryCampaigns(ctx)
}

// ToggleCampaign flips the active flag.
func (svc *Service) ToggleCampaign(ctx context.Context, id string) (Campaign, error) {
	camp, err := svc.repo.GetCampaign(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	camp.IsActive = !camp.IsActive
	return svc.repo.UpdateCampaign(ctx, camp)
}

func (svc *Service) DeleteCampaign(ctx context.Context, id string) error {
	return svc.repo.DeleteCampaign(ctx, id)
}

// RecordPledge adds the pledged amount to an active campaign's running
// total. No payment is processed.
func (svc *Service) RecordPledge(ctx context.Context, p Pledge) (Campaign, error) {
	camp, err := svc.repo.GetCampaign(ctx, p.CampaignID)
	if err != nil {
		return Campaign{}, err
	}
	if !camp.IsActive {
		return Campaign{}, core.NewValidationError(errors.New("campaign is closed"),
			core.FieldError{Field: "campaign_id", Error: "campaign is closed"})
	}
	camp.CurrentAmount += p.Amount
	return svc.repo.UpdateCampaign(ctx, camp)
}
