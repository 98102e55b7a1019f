package client

import (
	"context"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
)

// Client is the typed Board API used by the session and resource stores.
type Client interface {
	Ping(ctx context.Context) error

	Login(ctx context.Context, username, password string) (models.Token, error)
	Me(ctx context.Context) (models.UserProfile, error)

	ListPosts(ctx context.Context, limit int) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	CreatePost(ctx context.Context, data models.PostCreate) (models.Post, error)
	UpdatePost(ctx context.Context, id string, data models.PostUpdate) (models.Post, error)
	DeletePost(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, data models.UserCreate) (models.User, error)
	UpdateUser(ctx context.Context, id string, data models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// TokenSource supplies the credential attached to outgoing requests.
type TokenSource interface {
	Token() (string, bool)
}

// Invalidator is notified when any request is rejected with 401.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context)

func (f InvalidatorFunc) Invalidate(ctx context.Context) { f(ctx) }
