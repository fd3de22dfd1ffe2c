package scan

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{
			name: "empty",
			raw:  "",
			want: map[string]string{},
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: map[string]string{},
		},
		{
			name: "single pair",
			raw:  "theme: dark",
			want: map[string]string{"theme": "dark"},
		},
		{
			name: "multiple pairs",
			raw:  "theme: dark, width: 400, height: 300",
			want: map[string]string{"theme": "dark", "width": "400", "height": "300"},
		},
		{
			name: "quoted value with comma",
			raw:  `theme: dark, background: "light, blue"`,
			want: map[string]string{"theme": "dark", "background": "light, blue"},
		},
		{
			name: "single quoted value",
			raw:  "background: 'dark, gray'",
			want: map[string]string{"background": "dark, gray"},
		},
		{
			name: "escaped quote inside quoted value",
			raw:  `label: "say \"hi\""`,
			want: map[string]string{"label": `say "hi"`},
		},
		{
			name: "segment without colon dropped",
			raw:  "theme: dark, standalone, width: 200",
			want: map[string]string{"theme": "dark", "width": "200"},
		},
		{
			name: "empty key dropped",
			raw:  ": value, theme: forest",
			want: map[string]string{"theme": "forest"},
		},
		{
			name: "value with colon splits on first only",
			raw:  "url: http://example.com",
			want: map[string]string{"url": "http://example.com"},
		},
		{
			name: "duplicate key keeps last",
			raw:  "theme: dark, theme: forest",
			want: map[string]string{"theme": "forest"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAttributes(tt.raw))
		})
	}
}

func TestParseAttributesRoundTrip(t *testing.T) {
	// Re-parsing the serialized form of a parsed mapping yields the same
	// mapping.
	parsed := ParseAttributes("width: 400, theme: dark")

	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+parsed[k])
	}
	assert.Equal(t, parsed, ParseAttributes(strings.Join(pairs, ", ")))
}
