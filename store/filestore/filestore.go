// Package filestore persists the session record as a JSON file, surviving
// process restarts. This is the durable analog of browser local storage.
package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spindo/spindo-client-go/store"
)

const fileMode = 0o600

// record is the on-disk layout. Tokens and identity live in one file so
// they can never be written or cleared separately.
type record struct {
	Tokens store.TokenPair `json:"tokens"`
	User   store.Identity  `json:"user"`
}

// FileStore is a JSON-file implementation of store.Store.
type FileStore struct {
	path string
}

// New creates a FileStore writing to path. The parent directory is created
// on the first Save.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

var _ store.Store = (*FileStore)(nil)

// Save overwrites any existing record. The file is written whole; a reader
// that finds an unparsable file treats the session as absent.
func (f *FileStore) Save(_ context.Context, tokens store.TokenPair, user store.Identity) error {
	data, err := json.Marshal(record{Tokens: tokens, User: user})
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] marshal")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Save] mkdir")
	}
	if err := os.WriteFile(f.path, data, fileMode); err != nil {
		return errors.Wrap(err, "[FileStore.Save] write")
	}
	return nil
}

// Load returns the stored record or store.ErrNoSession. A missing file,
// a file that fails to parse, and a record missing either token all count
// as absent; the two failure cases also clear the file.
func (f *FileStore) Load(ctx context.Context) (store.TokenPair, store.Identity, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store.TokenPair{}, store.Identity{}, store.ErrNoSession
		}
		return store.TokenPair{}, store.Identity{}, errors.Wrap(err, "[FileStore.Load] read")
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = f.Clear(ctx)
		return store.TokenPair{}, store.Identity{}, store.ErrNoSession
	}
	if !rec.Tokens.Complete() || !rec.User.Role.Valid() {
		_ = f.Clear(ctx)
		return store.TokenPair{}, store.Identity{}, store.ErrNoSession
	}
	return rec.Tokens, rec.User, nil
}

// Clear removes the file. Removing an absent file is not an error.
func (f *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove")
	}
	return nil
}
