// Package storage persists the session across client restarts.
//
// The store is a flat string key/value map. Two keys are used: KeyToken
// holds the raw credential and KeyUser the JSON-encoded profile. A missing
// key means "no session". Writes to different keys are independent, so a
// crash between them can leave a token without a profile; the session layer
// heals that by fetching the profile again.
package storage

import "context"

const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is durable key/value storage local to one client installation.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set creates or overwrites key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}
