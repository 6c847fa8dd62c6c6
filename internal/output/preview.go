package output

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"slidegen/internal/slideshow"
)

//go:embed templates/preview.html.tmpl
var previewSource string

var previewTemplate = template.Must(template.New("preview").Funcs(template.FuncMap{
	"imageURL": imageURL,
	"inc":      func(i int) int { return i + 1 },
	"title":    previewTitle,
}).Parse(previewSource))

// RenderHTML writes a standalone HTML page for post. Line breaks inside
// overlay texts are preserved.
func RenderHTML(w io.Writer, post slideshow.Post) error {
	if err := previewTemplate.Execute(w, post); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	return nil
}

func imageURL(path string) template.URL {
	if path == "" {
		return ""
	}
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return template.URL(u.String())
}

func previewTitle(post slideshow.Post) string {
	if post.Route == "" {
		return post.Variant
	}
	return post.Variant + " / " + post.Route
}
