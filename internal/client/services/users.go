package services

import (
	"context"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
	"github.com/dmitrijs2005/gophboard/internal/client/resource"
	"github.com/dmitrijs2005/gophboard/internal/logging"
)

// UsersAPI is the subset of client.Client used by the user store.
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, data models.UserCreate) (models.User, error)
	UpdateUser(ctx context.Context, id string, data models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type UserStore = resource.Store[models.User, string, models.UserCreate, models.UserUpdate]

var UserMessages = resource.Messages{
	Fetch:  "failed to fetch users",
	Create: "failed to create user",
	Update: "failed to update user",
	Delete: "failed to delete user",
}

type userBackend struct {
	api UsersAPI
}

func (b userBackend) List(ctx context.Context) ([]models.User, error) {
	return b.api.ListUsers(ctx)
}

func (b userBackend) Create(ctx context.Context, data models.UserCreate) (models.User, error) {
	return b.api.CreateUser(ctx, data)
}

func (b userBackend) Update(ctx context.Context, id string, data models.UserUpdate) (models.User, error) {
	return b.api.UpdateUser(ctx, id, data)
}

func (b userBackend) Delete(ctx context.Context, id string) error {
	return b.api.DeleteUser(ctx, id)
}

func NewUserStore(api UsersAPI, log logging.Logger) *UserStore {
	return resource.New[models.User, string, models.UserCreate, models.UserUpdate](
		userBackend{api: api},
		resource.Config[models.User, string]{
			Name:     "users",
			Identity: func(u models.User) string { return u.ID },
			Insert:   resource.Append,
			Messages: UserMessages,
		},
		log,
	)
}
