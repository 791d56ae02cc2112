package profile

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/account"
)

// Resolver maps an opaque participant id to a Participant. The account record
// carries the authoritative kind tag; the matching detail registry is joined
// for display fields. Accounts that predate the kind tag are classified by
// probing the institution registry first, then the alumni registry.
//
// Resolution never fails: any lookup error degrades to the Unknown placeholder.
type Resolver struct {
	accounts account.Repository
	profiles Repository
	logger   core.Logger
}

func NewResolver(accounts account.Repository, profiles Repository, logger core.Logger) *Resolver {
	return &Resolver{accounts: accounts, profiles: profiles, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, id string) Participant {
	if id == "" {
		return Unknown(id)
	}

	usr, err := r.accounts.GetUserByID(ctx, id)
	if err == nil {
		switch usr.Kind {
		case account.KindInstitution:
			return r.resolveInstitution(ctx, id, usr.Email)
		case account.KindAlumni:
			return r.resolveAlumni(ctx, id)
		}
	} else if errors.Cause(err) != account.ErrNotFound {
		r.logger.Warn(fmt.Sprintf("resolving account %s: %v", id, err), err)
	}

	// No usable account record: classify by registry presence,
	// institutions first. A failed probe must not abort the other.
	if p, ok := r.probeInstitution(ctx, id); ok {
		return p
	}
	if p, ok := r.probeAlumni(ctx, id); ok {
		return p
	}
	return Unknown(id)
}

func (r *Resolver) resolveInstitution(ctx context.Context, id, email string) Participant {
	if p, ok := r.probeInstitution(ctx, id); ok {
		return p
	}
	// kind is known even when the detail record is missing
	return Participant{
		ID:             id,
		Kind:           KindInstitution,
		DisplayName:    "Institution",
		Email:          email,
		ProfilePicture: DefaultProfilePicture,
	}
}

func (r *Resolver) resolveAlumni(ctx context.Context, id string) Participant {
	if p, ok := r.probeAlumni(ctx, id); ok {
		return p
	}
	return Unknown(id)
}

func (r *Resolver) probeInstitution(ctx context.Context, id string) (Participant, bool) {
	inst, err := r.profiles.GetInstitution(ctx, id)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			r.logger.Warn(fmt.Sprintf("probing institutions for %s: %v", id, err), err)
		}
		return Participant{}, false
	}
	name := inst.Name
	if name == "" {
		name = "Institution"
	}
	return Participant{
		ID:             id,
		Kind:           KindInstitution,
		DisplayName:    name,
		Email:          inst.Email,
		ProfilePicture: DefaultProfilePicture,
	}, true
}

func (r *Resolver) probeAlumni(ctx context.Context, id string) (Participant, bool) {
	alum, err := r.profiles.GetAlumni(ctx, id)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			r.logger.Warn(fmt.Sprintf("probing alumni for %s: %v", id, err), err)
		}
		return Participant{}, false
	}
	name := alum.Name
	if name == "" {
		name = "Unknown Alumni"
	}
	pic := alum.ProfilePicture
	if pic == "" {
		pic = DefaultProfilePicture
	}
	return Participant{
		ID:             id,
		Kind:           KindAlumni,
		DisplayName:    name,
		Email:          alum.Email,
		WorkPosition:   alum.WorkPosition,
		WorkingDomain:  alum.WorkingDomain,
		Location:       alum.Location,
		ProfilePicture: pic,
	}, true
}
