// Package output renders command results to the terminal.
//
// Rendering has two phases: a text/template expands the data into text
// carrying semantic style tags (<Active>, <FilePath>, ...), then the tags
// are expanded into lipgloss styles, or stripped for plain output.
package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/output/styles"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var funcs = template.FuncMap{
	"join":   strings.Join,
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, one)
		}
		return fmt.Sprintf("%d %s", n, many)
	},
}

// Renderer expands templates and styles them for one writer
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	noColor   bool
}

// NewRenderer creates a Renderer writing to w. With noColor set, or when
// NO_COLOR is present in the environment, all style tags are stripped.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output")

	if os.Getenv("NO_COLOR") != "" {
		noColor = true
	}
	if !noColor {
		profile := lipgloss.NewRenderer(w).ColorProfile()
		lipgloss.SetColorProfile(profile)
		log.Debug().Str("colorProfile", fmt.Sprintf("%v", profile)).Msg("color profile detected")
	}

	tmpl, err := template.New("output").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: tmpl, writer: w, noColor: noColor}, nil
}

// Render executes the named template with data and writes the result
func (r *Renderer) Render(name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return r.write(buf.String())
}

// RenderError renders an error message with appropriate styling
func (r *Renderer) RenderError(err error) error {
	return r.write(fmt.Sprintf("<Error>Error:</Error> %s", err.Error()))
}

// RenderMessage renders a single line in the given style
func (r *Renderer) RenderMessage(style, message string) error {
	return r.write(fmt.Sprintf("<%s>%s</%s>", style, message, style))
}

func (r *Renderer) write(text string) error {
	text = strings.TrimRight(text, "\n")
	var out string
	if r.noColor {
		out = StripTags(text, styles.StyleRegistry)
	} else {
		expanded, err := ExpandTags(text, styles.StyleRegistry)
		if err != nil {
			return fmt.Errorf("failed to expand tags: %w", err)
		}
		out = expanded
	}
	_, err := fmt.Fprintln(r.writer, out)
	return err
}
