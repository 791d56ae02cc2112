package job

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("job not found")
	ErrForbidden = errors.New("not the referral owner")
)

type (
	Repository interface {
		CreateJob(ctx context.Context, j Job) (Job, error)
		GetJob(ctx context.Context, id string) (Job, error)
		QueryJobs(ctx context.Context) ([]Job, error) // createdAt desc
		CountApplications(ctx context.Context, jobID string) (int, error)

		CreateApplication(ctx context.Context, a Application) (Application, error)
		QueryApplicationsByJob(ctx context.Context, jobID string) ([]Application, error)

		CreateReferral(ctx context.Context, r Referral) (Referral, error)
		GetReferral(ctx context.Context, id string) (Referral, error)
		QueryReferrals(ctx context.Context) ([]Referral, error) // createdAt desc
		DeleteReferral(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateJob(ctx context.Context, nj NewJob) (Job, error) {
	j := Job{
		JobName:     nj.JobName,
		Company:     nj.Company,
		Location:    nj.Location,
		Description: nj.Description,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateJob(ctx, j)
}

// QueryJobs lists postings newest-first, each carrying its application count.
func (svc *Service) QueryJobs(ctx context.Context) ([]Job, error) {
	jobs, err := svc.repo.QueryJobs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		n, err := svc.repo.CountApplications(ctx, jobs[i].ID)
		if err != nil {
			return nil, errors.Wrap(err, "counting applications")
		}
		jobs[i].ApplicationCount = n
	}
	return jobs, nil
}

func (svc *Service) Apply(ctx context.Context, applicantID string, na NewApplication) (Application, error) {
	j, err := svc.repo.GetJob(ctx, na.JobID)
	if err != nil {
		return Application{}, err
	}
	app := Application{
		JobID:       j.ID,
		JobName:     j.JobName,
		ApplicantID: applicantID,
		AlumniName:  na.AlumniName,
		AlumniEmail: na.AlumniEmail,
		FileURL:     na.FileURL,
		AppliedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateApplication(ctx, app)
}

func (svc *Service) QueryApplications(ctx context.Context, jobID string) ([]Application, error) {
	return svc.repo.QueryApplicationsByJob(ctx, jobID)
}

func (svc *Service) PostReferral(ctx context.Context, referrerID, referrerName string, nr NewReferral) (Referral, error) {
	r := Referral{
		Title:        nr.Title,
		Company:      nr.Company,
		Location:     nr.Location,
		Description:  nr.Description,
		ReferrerID:   referrerID,
		ReferrerName: referrerName,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateReferral(ctx, r)
}

func (svc *Service) QueryReferrals(ctx context.Context) ([]Referral, error) {
	return svc.repo.QueryReferrals(ctx)
}

// DeleteReferral removes a referral; only its poster may do so.
func (svc *Service) DeleteReferral(ctx context.Context, callerID, id string) error {
	r, err := svc.repo.GetReferral(ctx, id)
	if err != nil {
		return err
	}
	if r.ReferrerID != callerID {
		return ErrForbidden
	}
	return svc.repo.DeleteReferral(ctx, id)
}
