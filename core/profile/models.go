package profile

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/almaconnect/alumnet/core"
)

var ErrNotFound = errors.New("profile not found")

// DefaultProfilePicture is shown whenever a participant has no picture of their own.
const DefaultProfilePicture = "https://cdn-icons-png.flaticon.com/512/12225/12225935.png"

// Kind classifies a resolved chat participant.
type Kind string

const (
	KindAlumni      Kind = "alumni"
	KindInstitution Kind = "institution"
	KindUnknown     Kind = "unknown"
)

// Alumni is the detail record behind an alumni account, keyed by the account id.
// Department and Batch drive the standing group derivation.
type Alumni struct {
	ID             string    `json:"id" firestore:"-"`
	Name           string    `json:"name" firestore:"name"`
	Email          string    `json:"email" firestore:"email"`
	Department     string    `json:"department" firestore:"department"`
	Batch          string    `json:"batch" firestore:"batch"`
	WorkPosition   string    `json:"work_position" firestore:"workPosition"`
	WorkingDomain  string    `json:"working_domain" firestore:"workingDomain"`
	Location       string    `json:"location" firestore:"location"`
	ProfilePicture string    `json:"profile_picture" firestore:"profilePicture"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Institution is the detail record behind an institution account.
type Institution struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// Participant is a read projection over the externally-owned profile records:
// whoever sits on the other end of a conversation, resolved lazily.
type Participant struct {
	ID             string `json:"id"`
	Kind           Kind   `json:"kind"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
	WorkPosition   string `json:"work_position,omitempty"`
	WorkingDomain  string `json:"working_domain,omitempty"`
	Location       string `json:"location,omitempty"`
	ProfilePicture string `json:"profile_picture"`
}

// Unknown is the placeholder substituted when resolution fails.
func Unknown(id string) Participant {
	return Participant{
		ID:             id,
		Kind:           KindUnknown,
		DisplayName:    "Unknown User",
		ProfilePicture: DefaultProfilePicture,
	}
}

type Repository interface {
	GetAlumni(ctx context.Context, id string) (Alumni, error)
	UpsertAlumni(ctx context.Context, a Alumni) (Alumni, error)
	GetInstitution(ctx context.Context, id string) (Institution, error)
	UpsertInstitution(ctx context.Context, inst Institution) (Institution, error)
}

// UpdateAlumni defines what an alumni may set on their own profile.
type UpdateAlumni struct {
	Name           string `json:"name" validate:"required"`
	Department     string `json:"department" validate:"required"`
	Batch          string `json:"batch"`
	WorkPosition   string `json:"work_position"`
	WorkingDomain  string `json:"working_domain"`
	Location       string `json:"location"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}

func (ua *UpdateAlumni) Validate(validate *validator.Validate) error {
	ua.Name = core.CleanString(ua.Name)
	ua.Department = core.CleanString(ua.Department)
	ua.Batch = core.CleanString(ua.Batch)
	ua.WorkPosition = core.CleanString(ua.WorkPosition)
	ua.WorkingDomain = core.CleanString(ua.WorkingDomain)
	ua.Location = core.CleanString(ua.Location)
	return validate.Struct(ua)
}
