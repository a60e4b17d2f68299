// Package blob abstracts content storage for uploaded files. Objects are
// addressed by opaque keys; the local-disk and S3 backends are
// interchangeable and selected by configuration at startup.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Provider tags recorded on document records.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// ErrNotFound is returned when no object exists under the given key.
var ErrNotFound = errors.New("blob not found")

// Store is the abstract content store for uploaded files.
type Store interface {
	// Provider returns the tag recorded on documents stored through this
	// backend.
	Provider() string
	// Put stores the object read from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open streams the object stored under key. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey builds a fresh storage key for an uploaded file, keeping the
// original extension: documents/<unix-millis>-<uuid><ext>.
func NewKey(fileName string) string {
	ext := path.Ext(fileName)
	return fmt.Sprintf("documents/%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
