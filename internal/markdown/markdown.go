// Package markdown converts Markdown fields of content records into
// sanitized HTML for templates.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer renders GitHub-flavoured Markdown and sanitizes the result with a
// user-generated-content policy. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer returns a Renderer with GFM extensions enabled.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, policy: newPolicy()}
}

func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("code", "pre", "span")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// ToHTML renders src. Raw HTML in the source survives only where the
// sanitizer allows it.
func (r *Renderer) ToHTML(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return r.policy.SanitizeBytes(buf.Bytes()), nil
}

// Template renders v for use in html/template. Strings and byte slices are
// rendered; nil renders as empty; anything else is an error.
func (r *Renderer) Template(v any) (template.HTML, error) {
	var src []byte
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		src = []byte(s)
	case []byte:
		src = s
	default:
		return "", errUnsupported(v)
	}
	out, err := r.ToHTML(src)
	if err != nil {
		return "", err
	}
	// #nosec G203 -- output is sanitized by the bluemonday policy.
	return template.HTML(out), nil
}
