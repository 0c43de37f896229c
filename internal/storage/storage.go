package storage

import (
	"context"
	"io"
	"time"
)

// StoredObject is a file placed in object storage.
type StoredObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// DocumentStorage holds registration documents. Files are first staged
// under the session they belong to; completing the registration promotes
// them to the merchant's permanent prefix, and abandoned staged files are
// swept by the cleanup scheduler.
type DocumentStorage interface {
	// PutStaged writes an uploaded file into the staging area.
	PutStaged(ctx context.Context, sessionID, slot, filename, contentType string, body io.Reader) (*StoredObject, error)

	// Promote moves a staged object to the merchant's permanent prefix.
	Promote(ctx context.Context, stagedKey string, merchantID uint) (*StoredObject, error)

	// Delete removes objects by key. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// ListStagedBefore returns staged object keys last modified before
	// the cutoff. Used by the orphan sweep.
	ListStagedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}
