package culture

type ImageKind string

const (
	ImageNone   ImageKind = ""
	ImageInline ImageKind = "inline"
	ImageRemote ImageKind = "remote"
)

// Image is the tagged representation of a record's optional photo. A record
// holds at most one of the two variants: inline-encoded data or a retrieval
// URL. Remote images also keep the blob path so the object can be released
// when the record is edited or deleted.
type Image struct {
	Kind ImageKind `json:"kind"`
	Data string    `json:"data,omitempty"`
	URL  string    `json:"url,omitempty"`
	Path string    `json:"path,omitempty"`
}

func InlineImage(dataURL string) Image {
	return Image{Kind: ImageInline, Data: dataURL}
}

func RemoteImage(url string, path string) Image {
	return Image{Kind: ImageRemote, URL: url, Path: path}
}

func (i Image) IsZero() bool {
	return i.Kind == ImageNone
}
