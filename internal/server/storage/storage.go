// Package storage keeps the raw bytes of every uploaded file.
package storage

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/dmitrijs2005/auditoria/internal/filex"
	"github.com/google/uuid"
)

// Store persists one upload under name and returns where it landed.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// StorageName prefixes the client filename with a random UUID so concurrent
// uploads of the same file never collide. Directory parts are stripped.
func StorageName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return uuid.NewString() + "_" + base
}

// LocalStore writes uploads into a directory, creating it on first use.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	p, _, err := filex.WriteNew(dir, name, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return p, nil
}
