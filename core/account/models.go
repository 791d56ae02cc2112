package account

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/almaconnect/alumnet/core"
)

// Kind discriminates the two account populations. Set once at registration;
// the messaging core routes chat behavior off it.
type Kind string

const (
	KindAlumni      Kind = "alumni"
	KindInstitution Kind = "institution"
)

// User is the unified account record, keyed by the auth provider's stable id.
type User struct {
	ID           string    `json:"id" firestore:"uid"`
	Email        string    `json:"email" firestore:"email"`
	Kind         Kind      `json:"role" firestore:"role"`
	IsActive     bool      `json:"is_active" firestore:"isActive"`
	PasswordHash []byte    `json:"-" firestore:"passwordHash"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	LastLogin    time.Time `json:"last_login" firestore:"lastLogin"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsInstitution() bool {
	return u.Kind == KindInstitution
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Kind            Kind   `json:"role" validate:"omitempty,oneof=alumni institution"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	if nu.Kind == "" {
		nu.Kind = KindAlumni
	}

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Email)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
