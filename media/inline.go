package media

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/w-h-a/culturelog/culture"
)

// inlineConverter encodes the file as a base64 data URL held directly on the
// record. Record size grows with the image; the store's own document limit is
// the only bound.
type inlineConverter struct{}

func (c *inlineConverter) Convert(ctx context.Context, ownerId string, file File) (culture.Image, error) {
	encoded := base64.StdEncoding.EncodeToString(file.Data)
	dataURL := fmt.Sprintf("data:%s;base64,%s", file.ContentType(), encoded)
	return culture.InlineImage(dataURL), nil
}

func NewInlineConverter() Converter {
	return &inlineConverter{}
}
