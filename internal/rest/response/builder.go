package response

import (
	"github.com/Guyuepp/social-blog/domain"
)

const DateTimeFormat = "2006-01-02 15:04:05"

// HTMLRenderer renders article markdown.
type HTMLRenderer interface {
	HTML(src string) string
}

// Builder turns domain values into response bodies. It knows how to address
// media and how to render article bodies.
type Builder struct {
	media    domain.MediaStore
	renderer HTMLRenderer
}

func NewBuilder(media domain.MediaStore, renderer HTMLRenderer) *Builder {
	return &Builder{media: media, renderer: renderer}
}

func (b *Builder) mediaURL(ref string) string {
	if b.media == nil {
		return ref
	}
	return b.media.URL(ref)
}
