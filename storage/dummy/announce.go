package dummydb

import (
	"context"
	"sort"

	"github.com/almaconnect/alumnet/core/announce"
)

type announceRepository struct {
	db *DB
}

var _ announce.Repository = (*announceRepository)(nil) // interface compliance check

func NewAnnounceRepository(db *DB) announce.Repository {
	return &announceRepository{db: db}
}

func (repo *announceRepository) CreateAnnouncement(ctx context.Context, a announce.Announcement) (announce.Announcement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return announce.Announcement{}, ErrUnavailable
	}
	a.ID = newDocID()
	repo.db.announcements[a.ID] = &a
	return a, nil
}

func (repo *announceRepository) QueryAnnouncements(ctx context.Context) ([]announce.Announcement, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}
	anns := make([]announce.Announcement, 0, len(repo.db.announcements))
	for _, a := range repo.db.announcements {
		anns = append(anns, *a)
	}
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}

func (repo *announceRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return ErrUnavailable
	}
	delete(repo.db.announcements, id)
	return nil
}

func (repo *announceRepository) CreateCampaign(ctx context.Context, c announce.Campaign) (announce.Campaign, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return announce.Campaign{}, ErrUnavailable
	}
	c.ID = newDocID()
	repo.db.campaigns[c.ID] = &c
	return c, nil
}

func (repo *announceRepository) GetCampaign(ctx context.Context, id string) (announce.Campaign, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return announce.Campaign{}, ErrUnavailable
	}
	if c, ok := repo.db.campaigns[id]; ok {
		return *c, nil
	}
	return announce.Campaign{}, announce.ErrNotFound
}

func (repo *announceRepository) QueryCampaigns(ctx context.Context) ([]announce.Campaign, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}
	camps := make([]announce.Campaign, 0, len(repo.db.campaigns))
	for _, c := range repo.db.campaigns {
		camps = append(camps, *c)
	}
	sort.SliceStable(camps, func(i, j int) bool { return camps[i].CreatedAt.After(camps[j].CreatedAt) })
	return camps, nil
}

func (repo *announceRepository) UpdateCampaign(ctx context.Context, c announce.Campaign) (announce.Campaign, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return announce.Campaign{}, ErrUnavailable
	}
	if _, ok := repo.db.campaigns[c.ID]; !ok {
		return announce.Campaign{}, announce.ErrNotFound
	}
	repo.db.campaigns[c.ID] = &c
	return c, nil
}

func (repo *announceRepository) DeleteCampaign(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return ErrUnavailable
	}
	delete(repo.db.campaigns, id)
	return nil
}
