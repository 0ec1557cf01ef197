package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/culturelog/blob"
	"github.com/w-h-a/culturelog/culture"
)

// uploadConverter puts the file's bytes in the blob store under a path scoped
// by owner and a collision-resistant name, then stores the resolved retrieval
// URL on the record.
type uploadConverter struct {
	blobs blob.Blob
	now   func() time.Time
}

func (c *uploadConverter) Convert(ctx context.Context, ownerId string, file File) (culture.Image, error) {
	path := fmt.Sprintf("images/%s/%d_%s", ownerId, c.now().UnixMilli(), objectName(file.Name))

	if err := c.blobs.Put(ctx, path, file.Data); err != nil {
		return culture.Image{}, fmt.Errorf("put blob: %w", err)
	}

	url, err := c.blobs.ResolveURL(ctx, path)
	if err != nil {
		return culture.Image{}, fmt.Errorf("resolve blob url: %w", err)
	}

	return culture.RemoteImage(url, path), nil
}

func objectName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return uuid.New().String()
	}

	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_")

	return replacer.Replace(name)
}

func NewUploadConverter(blobs blob.Blob) Converter {
	if blobs == nil {
		panic("blob store is required")
	}

	return &uploadConverter{
		blobs: blobs,
		now:   func() time.Time { return time.Now().UTC() },
	}
}
