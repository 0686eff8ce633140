package port

import (
	"context"
	"io"
	"time"
)

// ArchivedObject describes an export stored in the archive.
type ArchivedObject struct {
	Key          string    `json:"key"`
	Location     string    `json:"location,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ExportArchive stores generated reports in object storage. Keys are
// relative to the archive's configured bucket and prefix.
type ExportArchive interface {
	Put(ctx context.Context, name string, body io.Reader, contentType string) (*ArchivedObject, error)
	PresignedURL(ctx context.Context, key string) (string, error)
	List(ctx context.Context) ([]ArchivedObject, error)
	Delete(ctx context.Context, key string) error
}
