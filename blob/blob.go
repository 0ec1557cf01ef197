package blob

import "context"

// Blob is the remote object store capability: bytes live at an opaque path,
// and a path resolves to a retrieval URL.
type Blob interface {
	Put(ctx context.Context, path string, data []byte) error
	ResolveURL(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) error
}
