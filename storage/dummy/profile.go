package dummydb

import (
	"context"

	"github.com/almaconnect/alumnet/core/profile"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetAlumni(ctx context.Context, id string) (profile.Alumni, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return profile.Alumni{}, ErrUnavailable
	}
	if alum, ok := repo.db.alumni[id]; ok {
		return *alum, nil
	}
	return profile.Alumni{}, profile.ErrNotFound
}

func (repo *profileRepository) UpsertAlumni(ctx context.Context, a profile.Alumni) (profile.Alumni, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return profile.Alumni{}, ErrUnavailable
	}
	repo.db.alumni[a.ID] = &a
	return a, nil
}

func (repo *profileRepository) GetInstitution(ctx context.Context, id string) (profile.Institution, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return profile.Institution{}, ErrUnavailable
	}
	if inst, ok := repo.db.institutions[id]; ok {
		return *inst, nil
	}
	return profile.Institution{}, profile.ErrNotFound
}

func (repo *profileRepository) UpsertInstitution(ctx context.Context, inst profile.Institution) (profile.Institution, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return profile.Institution{}, ErrUnavailable
	}
	repo.db.institutions[inst.ID] = &inst
	return inst, nil
}
