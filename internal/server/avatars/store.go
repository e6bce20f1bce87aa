// Package avatars stores user avatar images under opaque keys, either in a
// local directory or in an S3-compatible bucket.
package avatars

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store kinds accepted in configuration.
const (
	StoreLocal = "local"
	StoreS3    = "s3"
)

var ErrInvalidKey = errors.New("invalid avatar key")

type Store interface {
	// Save writes r under key. size is -1 when unknown.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh random key keeping the lower-cased extension of
// filename.
func NewKey(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
