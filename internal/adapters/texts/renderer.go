// Package texts renders the bot's messages from templates embedded in the
// binary.
package texts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var ErrUnknownText = errors.New("unknown text")

var funcs = template.FuncMap{
	"ordinal": humanize.Ordinal,
	"plural":  english.Plural,
	"series": func(words []string) string {
		return english.WordSeries(words, "and")
	},
	"inc": func(i int) int { return i + 1 },
	"quote": func(text string) string {
		return "> " + strings.ReplaceAll(text, "\n", "\n> ")
	},
}

type Renderer struct {
	templates *template.Template
}

var _ ports.Renderer = (*Renderer)(nil)

// New parses every embedded template. Template keys are the file names
// without the .tmpl extension.
func New() (*Renderer, error) {
	templates, err := template.New("texts").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(key string, values any) (string, error) {
	tmpl := r.templates.Lookup(key + ".tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownText, key)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", key, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
