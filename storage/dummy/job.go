package dummydb

import (
	"context"
	"sort"

	"github.com/almaconnect/alumnet/core/job"
)

type jobRepository struct {
	db *DB
}

var _ job.Repository = (*jobRepository)(nil) // interface compliance check

func NewJobRepository(db *DB) job.Repository {
	return &jobRepository{db: db}
}

func (repo *jobRepository) CreateJob(ctx context.Context, j job.Job) (job.Job, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return job.Job{}, ErrUnavailable
	}
	j.ID = newDocID()
	repo.db.jobs[j.ID] = &j
	return j, nil
}

func (repo *jobRepository) GetJob(ctx context.Context, id string) (job.Job, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return job.Job{}, ErrUnavailable
	}
	if j, ok := repo.db.jobs[id]; ok {
		return *j, nil
	}
	return job.Job{}, job.ErrNotFound
}

func (repo *jobRepository) QueryJobs(ctx context.Context) ([]job.Job, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}
	jobs := make([]job.Job, 0, len(repo.db.jobs))
	for _, j := range repo.db.jobs {
		jobs = append(jobs, *j)
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

func (repo *jobRepository) CountApplications(ctx context.Context, jobID string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return 0, ErrUnavailable
	}
	var n int
	for _, app := range repo.db.applications {
		if app.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func (repo *jobRepository) CreateApplication(ctx context.Context, a job.Application) (job.Application, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return job.Application{}, ErrUnavailable
	}
	a.ID = newDocID()
	repo.db.applications[a.ID] = &a
	return a, nil
}

func (repo *jobRepository) QueryApplicationsByJob(ctx context.Context, jobID string) ([]job.Application, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}
	var apps []job.Application
	for _, app := range repo.db.applications {
		if app.JobID == jobID {
			apps = append(apps, *app)
		}
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].AppliedAt.Before(apps[j].AppliedAt) })
	return apps, nil
}

func (repo *jobRepository) CreateReferral(ctx context.Context, r job.Referral) (job.Referral, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return job.Referral{}, ErrUnavailable
	}
	r.ID = newDocID()
	repo.db.referrals[r.ID] = &r
	return r, nil
}

func (repo *jobRepository) GetReferral(ctx context.Context, id string) (job.Referral, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return job.Referral{}, ErrUnavailable
	}
	if r, ok := repo.db.referrals[id]; ok {
		return *r, nil
	}
	return job.Referral{}, job.ErrNotFound
}

func (repo *jobRepository) QueryReferrals(ctx context.Context) ([]job.Referral, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return nil, ErrUnavailable
	}
	refs := make([]job.Referral, 0, len(repo.db.referrals))
	for _, r := range repo.db.referrals {
		refs = append(refs, *r)
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].CreatedAt.After(refs[j].CreatedAt) })
	return refs, nil
}

func (repo *jobRepository) DeleteReferral(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return ErrUnavailable
	}
	delete(repo.db.referrals, id)
	return nil
}
