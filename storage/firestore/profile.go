package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core/profile"
)

type profileRepository struct {
	client *firestore.Client
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(client *firestore.Client) profile.Repository {
	return &profileRepository{client: client}
}

func (repo *profileRepository) GetAlumni(ctx context.Context, id string) (profile.Alumni, error) {
	snap, err := repo.client.Collection(colAlumni).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return profile.Alumni{}, profile.ErrNotFound
		}
		return profile.Alumni{}, errors.Wrap(err, "getting alumni profile")
	}

	var alum profile.Alumni
	if err = snap.DataTo(&alum); err != nil {
		return profile.Alumni{}, errors.Wrap(err, "decoding alumni profile")
	}
	alum.ID = snap.Ref.ID
	return alum, nil
}

func (repo *profileRepository) UpsertAlumni(ctx context.Context, alum profile.Alumni) (profile.Alumni, error) {
	if _, err := repo.client.Collection(colAlumni).Doc(alum.ID).Set(ctx, alum); err != nil {
		return profile.Alumni{}, errors.Wrap(err, "upserting alumni profile")
	}
	return alum, nil
}

func (repo *profileRepository) GetInstitution(ctx context.Context, id string) (profile.Institution, error) {
	snap, err := repo.client.Collection(colInstitutions).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return profile.Institution{}, profile.ErrNotFound
		}
		return profile.Institution{}, errors.Wrap(err, "getting institution profile")
	}

	var inst profile.Institution
	if err = snap.DataTo(&inst); err != nil {
		return profile.Institution{}, errors.Wrap(err, "decoding institution profile")
	}
	inst.ID = snap.Ref.ID
	return inst, nil
}

func (repo *profileRepository) UpsertInstitution(ctx context.Context, inst profile.Institution) (profile.Institution, error) {
	if _, err := repo.client.Collection(colInstitutions).Doc(inst.ID).Set(ctx, inst); err != nil {
		return profile.Institution{}, errors.Wrap(err, "upserting institution profile")
	}
	return inst, nil
}
