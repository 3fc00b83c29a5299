package domain

import (
	"context"
	"io"
)

const (
	MediaAvatars    = "avatars"
	MediaThumbnails = "thumbnails"
)

// MediaStore writes uploaded images. Save never overwrites: it writes a new object
// and returns its reference, the caller removes the old one.
type MediaStore interface {
	Save(ctx context.Context, dir, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
	// URL is the public address of ref, "" for an empty ref.
	URL(ref string) string
}
