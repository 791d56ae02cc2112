package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/almaconnect/alumnet/core/job"
)

type jobRepository struct {
	client *firestore.Client
}

var _ job.Repository = (*jobRepository)(nil) // interface compliance check

func NewJobRepository(client *firestore.Client) job.Repository {
	return &jobRepository{client: client}
}

func (repo *jobRepository) CreateJob(ctx context.Context, j job.Job) (job.Job, error) {
	ref := repo.client.Collection(colJobs).NewDoc()
	j.ID = ref.ID
	if _, err := ref.Create(ctx, j); err != nil {
		return job.Job{}, errors.Wrap(err, "creating job")
	}
	return j, nil
}

func (repo *jobRepository) GetJob(ctx context.Context, id string) (job.Job, error) {
	snap, err := repo.client.Collection(colJobs).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, errors.Wrap(err, "getting job")
	}
	var j job.Job
	if err = snap.DataTo(&j); err != nil {
		return job.Job{}, errors.Wrap(err, "decoding job")
	}
	j.ID = snap.Ref.ID
	return j, nil
}

func (repo *jobRepository) QueryJobs(ctx context.Context) ([]job.Job, error) {
	iter := repo.client.Collection(colJobs).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var jobs []job.Job
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing jobs")
		}
		var j job.Job
		if err = snap.DataTo(&j); err != nil {
			return nil, errors.Wrap(err, "decoding job")
		}
		j.ID = snap.Ref.ID
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (repo *jobRepository) CountApplications(ctx context.Context, jobID string) (int, error) {
	docs, err := repo.client.Collection(colApplications).
		Where("jobId", "==", jobID).
		Select().
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Wrap(err, "counting applications")
	}
	return len(docs), nil
}

func (repo *jobRepository) CreateApplication(ctx context.Context, a job.Application) (job.Application, error) {
	ref := repo.client.Collection(colApplications).NewDoc()
	a.ID = ref.ID
	if _, err := ref.Create(ctx, a); err != nil {
		return job.Application{}, errors.Wrap(err, "creating application")
	}
	return a, nil
}

func (repo *jobRepository) QueryApplicationsByJob(ctx context.Context, jobID string) ([]job.Application, error) {
	iter := repo.client.Collection(colApplications).Where("jobId", "==", jobID).Documents(ctx)
	defer iter.Stop()

	var apps []job.Application
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing applications")
		}
		var a job.Application
		if err = snap.DataTo(&a); err != nil {
			return nil, errors.Wrap(err, "decoding application")
		}
		a.ID = snap.Ref.ID
		apps = append(apps, a)
	}
	return apps, nil
}

func (repo *jobRepository) CreateReferral(ctx context.Context, r job.Referral) (job.Referral, error) {
	ref := repo.client.Collection(colReferrals).NewDoc()
	r.ID = ref.ID
	if _, err := ref.Create(ctx, r); err != nil {
		return job.Referral{}, errors.Wrap(err, "creating referral")
	}
	return r, nil
}

func (repo *jobRepository) GetReferral(ctx context.Context, id string) (job.Referral, error) {
	snap, err := repo.client.Collection(colReferrals).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return job.Referral{}, job.ErrNotFound
		}
		return job.Referral{}, errors.Wrap(err, "getting referral")
	}
	var r job.Referral
	if err = snap.DataTo(&r); err != nil {
		return job.Referral{}, errors.Wrap(err, "decoding referral")
	}
	r.ID = snap.Ref.ID
	return r, nil
}

func (repo *jobRepository) QueryReferrals(ctx context.Context) ([]job.Referral, error) {
	iter := repo.client.Collection(colReferrals).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var refs []job.Referral
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing referrals")
		}
		var r job.Referral
		if err = snap.DataTo(&r); err != nil {
			return nil, errors.Wrap(err, "decoding referral")
		}
		r.ID = snap.Ref.ID
		refs = append(refs, r)
	}
	return refs, nil
}

func (repo *jobRepository) DeleteReferral(ctx context.Context, id string) error {
	if _, err := repo.client.Collection(colReferrals).Doc(id).Delete(ctx); err != nil {
		return errors.Wrap(err, "deleting referral")
	}
	return nil
}
