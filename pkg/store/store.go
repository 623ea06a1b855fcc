// Package store provides the best-effort durable key/value storage the
// ledger persists its state through. Backends are interchangeable behind
// the Store interface; the file backend mirrors local device storage.
package store

import "errors"

// ErrKeyNotFound is returned by Load when the key has never been saved.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is a synchronous key/value byte store.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
}
