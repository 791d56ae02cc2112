package dummydb

import (
	"context"
	"time"

	"github.com/almaconnect/alumnet/core/account"
)

type accountRepository struct {
	db *DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) account.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return ErrUnavailable
	}
	for _, usr := range repo.db.users {
		if usr.Email == email {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateUser(ctx context.Context, usr account.User) (account.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return account.User{}, ErrUnavailable
	}
	if usr.ID == "" {
		usr.ID = newDocID()
	}
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *accountRepository) GetUserByID(ctx context.Context, id string) (account.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return account.User{}, ErrUnavailable
	}
	if usr, ok := repo.db.users[id]; ok {
		return *usr, nil
	}
	return account.User{}, account.ErrNotFound
}

func (repo *accountRepository) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.unreachable {
		return account.User{}, ErrUnavailable
	}
	for _, usr := range repo.db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return account.User{}, account.ErrNotFound
}

func (repo *accountRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.unreachable {
		return ErrUnavailable
	}
	usr, ok := repo.db.users[id]
	if !ok {
		return account.ErrNotFound
	}
	usr.LastLogin = at
	return nil
}
