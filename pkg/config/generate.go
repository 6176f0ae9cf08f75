package config

import (
	"bytes"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# modshelf configuration
#
# Uncomment and edit the values you want to change. Anything left commented
# keeps its built-in default.

`

// GenerateConfigContent renders the defaults as a TOML file with every value
// commented out.
func GenerateConfigContent() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(Default()); err != nil {
		return "", err
	}
	return generatedHeader + commentOutConfigValues(buf.String()), nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [undo], [categories.paks]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
