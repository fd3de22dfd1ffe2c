package scan

import "strings"

// ParseAttributes converts the raw attribute string of an attributed fence
// (the content between "{" and "}") into a key/value map.
//
// Segments are comma-separated, but commas inside single or double quotes do
// not split, and a backslash escapes the following character. Each segment is
// split on the first ":"; segments without a colon and segments with an empty
// key are dropped rather than rejected, so heterogeneous author input never
// fails. A value fully wrapped in matching quotes is unquoted.
func ParseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return attrs
	}

	for _, segment := range splitAttributes(raw) {
		key, value, found := strings.Cut(segment, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		attrs[key] = unquote(strings.TrimSpace(value))
	}
	return attrs
}

// splitAttributes splits a comma-separated attribute list, keeping quoted
// segments intact and honoring backslash escapes.
func splitAttributes(raw string) []string {
	var (
		parts   []string
		buf     strings.Builder
		quote   byte
		escaped bool
	)

	for i := 0; i < len(raw); i++ {
		ch := raw[i]

		if escaped {
			buf.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == '"' || ch == '\'' {
			switch quote {
			case ch:
				quote = 0
			case 0:
				quote = ch
			}
			buf.WriteByte(ch)
			continue
		}
		if ch == ',' && quote == 0 {
			parts = append(parts, strings.TrimSpace(buf.String()))
			buf.Reset()
			continue
		}
		buf.WriteByte(ch)
	}

	if buf.Len() > 0 {
		parts = append(parts, strings.TrimSpace(buf.String()))
	}
	return parts
}

// unquote strips a fully matching pair of surrounding quotes and unescapes
// occurrences of that quote character inside the value.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first := value[0]
	if first != '"' && first != '\'' {
		return value
	}
	if value[len(value)-1] != first {
		return value
	}
	inner := value[1 : len(value)-1]
	return strings.ReplaceAll(inner, `\`+string(first), string(first))
}
