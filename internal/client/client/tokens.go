package client

import (
	"context"

	"github.com/dmitrijs2005/gophboard/internal/client/storage"
)

// StorageTokens reads the token straight from persistent storage. It is
// the token source in effect before the session store exists.
type StorageTokens struct {
	Storage storage.Storage
}

func (s StorageTokens) Token() (string, bool) {
	v, ok, err := s.Storage.Get(context.Background(), storage.KeyToken)
	if err != nil || !ok || v == "" {
		return "", false
	}
	return v, true
}
