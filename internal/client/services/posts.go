package services

import (
	"context"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
	"github.com/dmitrijs2005/gophboard/internal/client/resource"
	"github.com/dmitrijs2005/gophboard/internal/logging"
)

// PostsAPI is the subset of client.Client used by the post store.
type PostsAPI interface {
	ListPosts(ctx context.Context, limit int) ([]models.Post, error)
	CreatePost(ctx context.Context, data models.PostCreate) (models.Post, error)
	UpdatePost(ctx context.Context, id string, data models.PostUpdate) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

type PostStore = resource.Store[models.Post, string, models.PostCreate, models.PostUpdate]

var PostMessages = resource.Messages{
	Fetch:  "failed to fetch posts",
	Create: "failed to create post",
	Update: "failed to update post",
	Delete: "failed to delete post",
}

type postBackend struct {
	api   PostsAPI
	limit int
}

func (b postBackend) List(ctx context.Context) ([]models.Post, error) {
	return b.api.ListPosts(ctx, b.limit)
}

func (b postBackend) Create(ctx context.Context, data models.PostCreate) (models.Post, error) {
	return b.api.CreatePost(ctx, data)
}

func (b postBackend) Update(ctx context.Context, id string, data models.PostUpdate) (models.Post, error) {
	return b.api.UpdatePost(ctx, id, data)
}

func (b postBackend) Delete(ctx context.Context, id string) error {
	return b.api.DeletePost(ctx, id)
}

// NewPostStore builds the post collection. limit caps FetchAll; zero leaves
// it to the server.
func NewPostStore(api PostsAPI, limit int, log logging.Logger) *PostStore {
	return resource.New[models.Post, string, models.PostCreate, models.PostUpdate](
		postBackend{api: api, limit: limit},
		resource.Config[models.Post, string]{
			Name:     "posts",
			Identity: func(p models.Post) string { return p.ID },
			Insert:   resource.Prepend,
			Messages: PostMessages,
		},
		log,
	)
}
