package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Renderer writes a use case result to the terminal
type Renderer[T any] interface {
	Render(result T) error
}

// Output formats accepted by --format
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// WriteStructured writes v as JSON or YAML. It reports false for the table
// format so callers fall through to their own rendering.
func WriteStructured(out io.Writer, format string, v any) (bool, error) {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case FormatTable, "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q (valid: table, json, yaml)", format)
	}
}
