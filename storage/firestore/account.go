package firestoredb

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/almaconnect/alumnet/core/account"
)

type accountRepository struct {
	client *firestore.Client
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(client *firestore.Client) account.Repository {
	return &accountRepository{client: client}
}

func (repo *accountRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	iter := repo.client.Collection(colUsers).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != iterator.Done {
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		return account.ErrEmailExists
	}
	return nil
}

func (repo *accountRepository) CreateUser(ctx context.Context, user account.User) (account.User, error) {
	ref := repo.client.Collection(colUsers).NewDoc()
	user.ID = ref.ID
	if _, err := ref.Create(ctx, user); err != nil {
		return account.User{}, errors.Wrap(err, "creating user")
	}
	return user, nil
}

func (repo *accountRepository) GetUserByID(ctx context.Context, id string) (account.User, error) {
	snap, err := repo.client.Collection(colUsers).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return account.User{}, account.ErrNotFound
		}
		return account.User{}, errors.Wrap(err, "getting user")
	}
	return decodeUser(snap)
}

func (repo *accountRepository) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	iter := repo.client.Collection(colUsers).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return account.User{}, account.ErrNotFound
	}
	if err != nil {
		return account.User{}, errors.Wrap(err, "getting user by email")
	}
	return decodeUser(snap)
}

func (repo *accountRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := repo.client.Collection(colUsers).Doc(id).Update(ctx, []firestore.Update{
		{Path: "lastLogin", Value: at},
	})
	if err != nil {
		if isNotFound(err) {
			return account.ErrNotFound
		}
		return errors.Wrap(err, "updating last login")
	}
	return nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (account.User, error) {
	var user account.User
	if err := snap.DataTo(&user); err != nil {
		return account.User{}, errors.Wrap(err, "decoding user")
	}
	user.ID = snap.Ref.ID
	return user, nil
}
