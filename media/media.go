package media

import (
	"context"
	"net/http"
	"strings"

	"github.com/w-h-a/culturelog/culture"
)

// File is a user-selected file: the bytes plus whatever name and mime type
// the picker reported.
type File struct {
	Name string
	MIME string
	Data []byte
}

func (f File) ContentType() string {
	if len(strings.TrimSpace(f.MIME)) > 0 {
		return f.MIME
	}
	return http.DetectContentType(f.Data)
}

// Converter turns a selected file into the image representation persisted on
// a record. A deployment wires exactly one converter and never mixes
// strategies.
type Converter interface {
	Convert(ctx context.Context, ownerId string, file File) (culture.Image, error)
}
