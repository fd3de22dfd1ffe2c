package mermaid

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// stubExecutor scripts subprocess behavior for tests.
type stubExecutor struct {
	calls [][]string
	run   func(parts []string) (ExecResult, error)
}

func (s *stubExecutor) Run(parts []string, timeout time.Duration) (ExecResult, error) {
	recorded := make([]string, len(parts))
	copy(recorded, parts)
	s.calls = append(s.calls, recorded)
	return s.run(parts)
}

func TestFallbackFor(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"mmdc", "npx mmdc"},
		{"npx mmdc", "mmdc"},
		{"custom-mmdc", "npx custom-mmdc"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackFor(tt.command))
		})
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single token", "mmdc", []string{"mmdc"}},
		{"runner invocation", "npx mmdc", []string{"npx", "mmdc"}},
		{"quoted path", `"/opt/my tools/mmdc"`, []string{"/opt/my tools/mmdc"}},
		{"bare path with spaces", `C:\Program Files\mmdc.cmd`, []string{`C:\Program Files\mmdc.cmd`}},
		{"runner with path argument", "node /opt/tools/mmdc.js", []string{"node", "/opt/tools/mmdc.js"}},
		{"unterminated quote falls back whole", `mmdc "unterminated`, []string{`mmdc "unterminated`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCommand(tt.command))
		})
	}
}

func TestResolvePrimaryAvailable(t *testing.T) {
	execr := &stubExecutor{run: func(parts []string) (ExecResult, error) {
		return ExecResult{ExitCode: 0}, nil
	}}
	r := NewCommandResolver("mmdc", NewCommandCache(), execr, nil)

	parts, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"mmdc"}, parts)
}

func TestResolveAcceptsExitCodeOne(t *testing.T) {
	execr := &stubExecutor{run: func(parts []string) (ExecResult, error) {
		return ExecResult{ExitCode: 1}, nil
	}}
	r := NewCommandResolver("mmdc", NewCommandCache(), execr, nil)

	parts, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"mmdc"}, parts)
}

func TestResolveFallsBackToRunner(t *testing.T) {
	execr := &stubExecutor{run: func(parts []string) (ExecResult, error) {
		if parts[0] == "npx" {
			return ExecResult{ExitCode: 0}, nil
		}
		return ExecResult{}, errors.New("executable file not found")
	}}
	cache := NewCommandCache()
	r := NewCommandResolver("mmdc", cache, execr, nil)

	parts, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"npx", "mmdc"}, parts)

	// Cached under the configured command, not the resolved one.
	cached, ok := cache.Get("mmdc")
	require.True(t, ok)
	assert.Equal(t, []string{"npx", "mmdc"}, cached)
}

func TestResolveUsesCache(t *testing.T) {
	execr := &stubExecutor{run: func(parts []string) (ExecResult, error) {
		return ExecResult{ExitCode: 0}, nil
	}}
	cache := NewCommandCache()
	cache.Put("mmdc", []string{"npx", "mmdc"})
	r := NewCommandResolver("mmdc", cache, execr, nil)

	parts, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"npx", "mmdc"}, parts)
	assert.Empty(t, execr.calls, "cache hit must not probe")
}

func TestResolveNeitherAvailable(t *testing.T) {
	execr := &stubExecutor{run: func(parts []string) (ExecResult, error) {
		return ExecResult{}, errors.New("executable file not found")
	}}
	r := NewCommandResolver("mmdc", NewCommandCache(), execr, nil)

	_, err := r.Resolve()
	var cliErr *core.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Contains(t, cliErr.Message, "npm install -g @mermaid-js/mermaid-cli")
}

func TestCommandCacheCopies(t *testing.T) {
	cache := NewCommandCache()
	parts := []string{"npx", "mmdc"}
	cache.Put("k", parts)

	got, ok := cache.Get("k")
	require.True(t, ok)
	got[0] = "mutated"

	again, _ := cache.Get("k")
	assert.Equal(t, []string{"npx", "mmdc"}, again)
	assert.Equal(t, 1, cache.Len())
}
