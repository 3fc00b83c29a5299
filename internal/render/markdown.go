// Package render turns article markdown into HTML that is safe to embed.
package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// HTML renders src and strips anything outside the user generated content policy.
func (m *Markdown) HTML(src string) string {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		logrus.Warnf("failed to render markdown: %v", err)
		return m.policy.Sanitize(src)
	}
	return m.policy.Sanitize(buf.String())
}
