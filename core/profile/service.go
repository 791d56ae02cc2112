package profile

import (
	"context"
	"time"

	"github.com/almaconnect/alumnet/core"
)

// Service owns the profile registries' write paths; reads used by messaging
// go through the Resolver instead.
type Service struct {
	repo   Repository
	logger core.Logger
}

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (svc *Service) GetAlumni(ctx context.Context, id string) (Alumni, error) {
	return svc.repo.GetAlumni(ctx, id)
}

func (svc *Service) GetInstitution(ctx context.Context, id string) (Institution, error) {
	return svc.repo.GetInstitution(ctx, id)
}

// SaveAlumni creates or updates the caller's own alumni record.
func (svc *Service) SaveAlumni(ctx context.Context, id, email string, ua UpdateAlumni) (Alumni, error) {
	now := time.Now().UTC()
	alum := Alumni{
		ID:             id,
		Name:           ua.Name,
		Email:          email,
		Department:     ua.Department,
		Batch:          ua.Batch,
		WorkPosition:   ua.WorkPosition,
		WorkingDomain:  ua.WorkingDomain,
		Location:       ua.Location,
		ProfilePicture: ua.ProfilePicture,
		UpdatedAt:      now,
	}
	if orig, err := svc.repo.GetAlumni(ctx, id); err == nil {
		alum.CreatedAt = orig.CreatedAt
	} else {
		alum.CreatedAt = now
	}
	return svc.repo.UpsertAlumni(ctx, alum)
}

func (svc *Service) SaveInstitution(ctx context.Context, id, name, email string) (Institution, error) {
	inst := Institution{
		ID:        id,
		Name:      core.CleanString(name),
		Email:     core.CleanString(email, true /* lower */),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.UpsertInstitution(ctx, inst)
}
