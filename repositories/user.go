//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"care-thread/domain"
	"care-thread/errors"
	"context"
	goerrors "errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// IUserRepository is the local directory of care-team members. It mirrors
// the identity provider: ids and roles only, never credentials.
type IUserRepository interface {
	UpsertUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, id domain.UserID) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

type DiskUser struct {
	ID          string `bson:"id"`
	Role        string `bson:"role"`
	DisplayName string `bson:"display_name,omitempty"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func userKey(id domain.UserID) []byte {
	return []byte("user:" + string(id))
}

// UpsertUser validates and stores the user, replacing any previous role.
func (u UserRepository) UpsertUser(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateUser(user); err != nil {
		return err
	}
	data, err := bson.Marshal(DiskUser{
		ID:          string(user.ID),
		Role:        string(user.Role),
		DisplayName: user.DisplayName,
		UpdatedAt:   time.Now().UTC().UnixNano(),
	})
	if err != nil {
		return unavailable(err)
	}
	err = u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.ID), data)
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (u UserRepository) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	var disk DiskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return bson.Unmarshal(val, &disk)
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, unavailable(err)
	}
	return domain.User{
		ID:          domain.UserID(disk.ID),
		Role:        domain.Role(disk.Role),
		DisplayName: disk.DisplayName,
	}, nil
}
