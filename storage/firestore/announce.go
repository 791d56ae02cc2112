package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/almaconnect/alumnet/core/announce"
)

type announceRepository struct {
	client *firestore.Client
}

var _ announce.Repository = (*announceRepository)(nil) // interface compliance check

func NewAnnounceRepository(client *firestore.Client) announce.Repository {
	return &announceRepository{client: client}
}

func (repo *announceRepository) CreateAnnouncement(ctx context.Context, a announce.Announcement) (announce.Announcement, error) {
	ref := repo.client.Collection(colAnnouncements).NewDoc()
	a.ID = ref.ID
	if _, err := ref.Create(ctx, a); err != nil {
		return announce.Announcement{}, errors.Wrap(err, "creating announcement")
	}
	return a, nil
}

func (repo *announceRepository) QueryAnnouncements(ctx context.Context) ([]announce.Announcement, error) {
	iter := repo.client.Collection(colAnnouncements).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var anns []announce.Announcement
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing announcements")
		}
		var a announce.Announcement
		if err = snap.DataTo(&a); err != nil {
			return nil, errors.Wrap(err, "decoding announcement")
		}
		a.ID = snap.Ref.ID
		anns = append(anns, a)
	}
	return anns, nil
}

func (repo *announceRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	if _, err := repo.client.Collection(colAnnouncements).Doc(id).Delete(ctx); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return nil
}

func (repo *announceRepository) CreateCampaign(ctx context.Context, c announce.Campaign) (announce.Campaign, error) {
	ref := repo.client.Collection(colDonations).NewDoc()
	c.ID = ref.ID
	if _, err := ref.Create(ctx, c); err != nil {
		return announce.Campaign{}, errors.Wrap(err, "creating campaign")
	}
	return c, nil
}

func (repo *announceRepository) GetCampaign(ctx context.Context, id string) (announce.Campaign, error) {
	snap, err := repo.client.Collection(colDonations).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return announce.Campaign{}, announce.ErrNotFound
		}
		return announce.Campaign{}, errors.Wrap(err, "getting campaign")
	}
	var c announce.Campaign
	if err = snap.DataTo(&c); err != nil {
		return announce.Campaign{}, errors.Wrap(err, "decoding campaign")
	}
	c.ID = snap.Ref.ID
	return c, nil
}

func (repo *announceRepository) QueryCampaigns(ctx context.Context) ([]announce.Campaign, error) {
	iter := repo.client.Collection(colDonations).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var camps []announce.Campaign
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing campaigns")
		}
		var c announce.Campaign
		if err = snap.DataTo(&c); err != nil {
			return nil, errors.Wrap(err, "decoding campaign")
		}
		c.ID = snap.Ref.ID
		camps = append(camps, c)
	}
	return camps, nil
}

func (repo *announceRepository) UpdateCampaign(ctx context.Context, c announce.Campaign) (announce.Campaign, error) {
	if _, err := repo.client.Collection(colDonations).Doc(c.ID).Set(ctx, c); err != nil {
		if isNotFound(err) {
			return announce.Campaign{}, announce.ErrNotFound
		}
		return announce.Campaign{}, errors.Wrap(err, "updating campaign")
	}
	return c, nil
}

func (repo *announceRepository) DeleteCampaign(ctx context.Context, id string) error {
	if _, err := repo.client.Collection(colDonations).Doc(id).Delete(ctx); err != nil {
		return errors.Wrap(err, "deleting campaign")
	}
	return nil
}
