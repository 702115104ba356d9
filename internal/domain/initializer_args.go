package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// InitializerArgs is either "no arguments" or an explicit argument list.
// Build one with NoArgs, Args or ParseInitializerArgs.
type InitializerArgs struct {
	values []any
	set    bool
}

// NoArgs means the initializer is called without arguments
func NoArgs() InitializerArgs {
	return InitializerArgs{}
}

// Args wraps an explicit argument list. An empty list is equivalent to NoArgs.
func Args(values ...any) InitializerArgs {
	if len(values) == 0 {
		return NoArgs()
	}
	return InitializerArgs{values: values, set: true}
}

// IsEmpty reports whether there are no arguments
func (a InitializerArgs) IsEmpty() bool {
	return !a.set
}

// Values returns the argument list; never nil
func (a InitializerArgs) Values() []any {
	if !a.set {
		return []any{}
	}
	return a.values
}

// ParseInitializerArgs turns a comma separated CLI string into InitializerArgs.
// The empty string means no arguments. Commas inside brackets or double
// quotes do not split, so array literals like [1,2] stay intact. Quoted
// values are unquoted.
func ParseInitializerArgs(raw string) (InitializerArgs, error) {
	if strings.TrimSpace(raw) == "" {
		return NoArgs(), nil
	}

	parts, err := splitTopLevel(raw)
	if err != nil {
		return NoArgs(), err
	}

	values := make([]any, len(parts))
	for i, part := range parts {
		values[i] = part
	}
	return Args(values...), nil
}

// splitTopLevel splits on commas that are not nested in [] or "".
func splitTopLevel(raw string) ([]string, error) {
	var (
		parts   []string
		current strings.Builder
		depth   int
		quoted  bool
	)

	flush := func() {
		part := strings.TrimSpace(current.String())
		if len(part) >= 2 && part[0] == '"' && part[len(part)-1] == '"' {
			if unquoted, err := strconv.Unquote(part); err == nil {
				part = unquoted
			} else {
				part = part[1 : len(part)-1]
			}
		}
		parts = append(parts, part)
		current.Reset()
	}

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch == '\\' && quoted && i+1 < len(raw):
			current.WriteByte(ch)
			i++
			current.WriteByte(raw[i])
			continue
		case ch == '"':
			quoted = !quoted
		case ch == '[' && !quoted:
			depth++
		case ch == ']' && !quoted:
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced ']' at position %d", i)
			}
		case ch == ',' && !quoted && depth == 0:
			flush()
			continue
		}
		current.WriteByte(ch)
	}

	if quoted {
		return nil, fmt.Errorf("unterminated quote in %q", raw)
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced '[' in %q", raw)
	}
	flush()
	return parts, nil
}
