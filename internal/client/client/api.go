package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
)

var _ Client = (*HTTPClient)(nil)

// Ping checks that the API answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.Get(ctx, "/", nil)
}

// Login exchanges credentials for an access token. A 401 here means bad
// credentials and does not invalidate the session.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.Token, error) {
	var tok models.Token
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.Post(ctx, "/auth/login", req, &tok, WithoutInvalidation()); err != nil {
		return models.Token{}, err
	}
	return tok, nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.UserProfile, error) {
	var p models.UserProfile
	if err := c.Get(ctx, "/auth/me", &p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// ListPosts returns posts newest first. limit <= 0 uses the server default.
func (c *HTTPClient) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var opts []CallOption
	if limit > 0 {
		opts = append(opts, WithQuery(url.Values{"limit": {strconv.Itoa(limit)}}))
	}
	posts := []models.Post{}
	if err := c.Get(ctx, "/posts/", &posts, opts...); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id string) (models.Post, error) {
	var p models.Post
	if err := c.Get(ctx, "/posts/"+url.PathEscape(id), &p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, data models.PostCreate) (models.Post, error) {
	var p models.Post
	if err := c.Post(ctx, "/posts/", data, &p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (c *HTTPClient) UpdatePost(ctx context.Context, id string, data models.PostUpdate) (models.Post, error) {
	var p models.Post
	if err := c.Put(ctx, "/posts/"+url.PathEscape(id), data, &p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, id string) error {
	return c.Delete(ctx, "/posts/"+url.PathEscape(id))
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := c.Get(ctx, "/users/", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := c.Get(ctx, "/users/"+url.PathEscape(id), &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, data models.UserCreate) (models.User, error) {
	var u models.User
	if err := c.Post(ctx, "/users/", data, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, data models.UserUpdate) (models.User, error) {
	var u models.User
	if err := c.Put(ctx, "/users/"+url.PathEscape(id), data, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.Delete(ctx, "/users/"+url.PathEscape(id))
}
