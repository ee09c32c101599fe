// Package object stores uploaded source documents.
package object

import (
	"context"
	"errors"
	"io"
	"path"

	"resume-tailor/internal/shared/util"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("object not found")

// Object describes a stored upload.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Store persists raw uploads keyed by owner.
type Store interface {
	Put(ctx context.Context, ownerID, fileName, contentType string, body io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// BuildKey returns the storage key for an upload: uploads/<owner hash>/<id>_<file name>.
func BuildKey(ownerID, id, fileName string) (string, error) {
	clean, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join("uploads", util.HashUserKey(ownerID), id+"_"+clean), nil
}
