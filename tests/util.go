package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/almaconnect/alumnet/core"
	"github.com/almaconnect/alumnet/core/account"
	"github.com/almaconnect/alumnet/core/profile"
)

// NewLogger returns a no-op core.Logger for tests.
func NewLogger() core.Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func CreateUser(
	t *testing.T,
	repo account.Repository,
	email, pwd string,
	kind account.Kind,
	isActive bool,
) account.User {
	t.Helper()

	usr := account.User{
		Email:     email,
		Kind:      kind,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateAlumni(
	t *testing.T,
	repo profile.Repository,
	id, name, email, department, batch string,
) profile.Alumni {
	t.Helper()

	alum := profile.Alumni{
		ID:         id,
		Name:       name,
		Email:      email,
		Department: department,
		Batch:      batch,
		CreatedAt:  time.Now().UTC(),
	}
	alum, err := repo.UpsertAlumni(context.Background(), alum)
	if err != nil {
		t.Fatalf("CreateAlumni() failed: %v", err)
	}
	return alum
}

func CreateInstitution(
	t *testing.T,
	repo profile.Repository,
	id, name, email string,
) profile.Institution {
	t.Helper()

	inst := profile.Institution{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	inst, err := repo.UpsertInstitution(context.Background(), inst)
	if err != nil {
		t.Fatalf("CreateInstitution() failed: %v", err)
	}
	return inst
}
