package output

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NoFormatTag wraps text shown only in plain output, e.g. a symbol that
// stands in for color.
const NoFormatTag = "no-format"

var tagPattern = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9-]*)>`)

// ExpandTags replaces style tags with the ANSI sequences of the matching
// styles. Tags naming no known style are kept as literal text. Nested tags
// inherit the outer style.
func ExpandTags(input string, registry map[string]lipgloss.Style) (string, error) {
	return walkTags(input, registry, false)
}

// StripTags removes every known style tag, keeping the text
func StripTags(input string, registry map[string]lipgloss.Style) string {
	out, err := walkTags(input, registry, true)
	if err != nil {
		return input
	}
	return out
}

func walkTags(input string, registry map[string]lipgloss.Style, plain bool) (string, error) {
	var out strings.Builder
	var stack []string
	pos := 0

	emit := func(text string) {
		if text == "" || hidden(stack, plain) {
			return
		}
		if plain || len(stack) == 0 {
			out.WriteString(text)
			return
		}
		style := lipgloss.NewStyle()
		for i := len(stack) - 1; i >= 0; i-- {
			style = style.Inherit(registry[stack[i]])
		}
		// render per line so lipgloss does not pad lines to equal width
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			if i > 0 {
				out.WriteByte('\n')
			}
			if line != "" {
				out.WriteString(style.Render(line))
			}
		}
	}

	for _, m := range tagPattern.FindAllStringSubmatchIndex(input, -1) {
		name := input[m[4]:m[5]]
		if _, known := registry[name]; !known && name != NoFormatTag {
			continue
		}
		emit(input[pos:m[0]])
		pos = m[1]

		if m[3] > m[2] {
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return "", fmt.Errorf("unexpected closing tag </%s>", name)
			}
			stack = stack[:len(stack)-1]
			continue
		}
		stack = append(stack, name)
	}
	emit(input[pos:])

	if len(stack) > 0 {
		return "", fmt.Errorf("unclosed tag <%s>", stack[len(stack)-1])
	}
	return out.String(), nil
}

// hidden reports whether text inside a no-format tag is suppressed
func hidden(stack []string, plain bool) bool {
	if plain {
		return false
	}
	for _, name := range stack {
		if name == NoFormatTag {
			return true
		}
	}
	return false
}
