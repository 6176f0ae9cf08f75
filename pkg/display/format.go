package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/output"
)

// Format selects how views are printed
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted format names
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat accepts a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown format %q (want text, json or yaml)", s)
}

// View is anything the text renderer has a template for
type View interface {
	TemplateName() string
}

// Printer writes views in one format
type Printer struct {
	w        io.Writer
	format   Format
	renderer *output.Renderer
}

// NewPrinter creates a Printer. noColor only affects text output.
func NewPrinter(w io.Writer, format Format, noColor bool) (*Printer, error) {
	p := &Printer{w: w, format: format}
	if format == FormatText {
		r, err := output.NewRenderer(w, noColor)
		if err != nil {
			return nil, err
		}
		p.renderer = r
	}
	return p, nil
}

// Format returns the output format
func (p *Printer) Format() Format {
	return p.format
}

// Print writes v
func (p *Printer) Print(v View) error {
	switch p.format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode json")
		}
		_, err = fmt.Fprintln(p.w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		return enc.Close()
	}
	return p.renderer.Render(v.TemplateName(), v)
}

// Message prints a one-line confirmation. Structured formats wrap it in a
// MessageView.
func (p *Printer) Message(style, text string) error {
	if p.format != FormatText {
		return p.Print(MessageView{Message: text})
	}
	return p.renderer.RenderMessage(style, text)
}

// Error prints err. Structured formats emit an ErrorView.
func (p *Printer) Error(err error) error {
	if p.format != FormatText {
		return p.Print(NewErrorView(err))
	}
	return p.renderer.RenderError(err)
}
