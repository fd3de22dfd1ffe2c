package mermaid

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mermaid-tools/mermaidpipe/core"
)

const (
	defaultCommand = "mmdc"
	packageRunner  = "npx"
	probeTimeout   = 5 * time.Second
)

// probeFlags are tried in order to decide whether a command is invocable.
// Exit code 1 counts as success because many CLIs return 1 for --help.
var probeFlags = []string{"--version", "-v", "--help"}

// CommandResolver turns a configured renderer command string into an argv
// list, falling back to a package-runner invocation (or away from one) when
// the primary command is not invocable.
type CommandResolver struct {
	command string
	cache   *CommandCache
	exec    Executor
	logger  *log.Logger
}

// NewCommandResolver creates a resolver for the configured command.
func NewCommandResolver(command string, cache *CommandCache, execr Executor, logger *log.Logger) *CommandResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &CommandResolver{command: command, cache: cache, exec: execr, logger: logger}
}

// Resolve returns the argv parts for the renderer. Results are cached under
// the originally configured command string. When neither the primary nor the
// fallback is invocable, it returns a CLIError naming both.
func (r *CommandResolver) Resolve() ([]string, error) {
	if parts, ok := r.cache.Get(r.command); ok {
		r.logger.Debug("using cached mermaid command",
			"command", strings.Join(parts, " "), "cache_size", r.cache.Len())
		return parts, nil
	}

	if parts := r.attempt(r.command); parts != nil {
		r.cache.Put(r.command, parts)
		r.logger.Debug("using primary mermaid command", "command", strings.Join(parts, " "))
		return parts, nil
	}

	fallback := fallbackFor(r.command)
	if parts := r.attempt(fallback); parts != nil {
		r.cache.Put(r.command, parts)
		r.logger.Info("primary mermaid command not found, using fallback",
			"primary", r.command, "fallback", strings.Join(parts, " "))
		return parts, nil
	}

	return nil, &core.CLIError{
		Message: fmt.Sprintf(
			"mermaid CLI not found: tried %q and %q; install it with: npm install -g @mermaid-js/mermaid-cli",
			r.command, fallback),
		Command:  r.command,
		ExitCode: -1,
	}
}

// attempt returns the split argv parts when command is invocable, nil otherwise.
func (r *CommandResolver) attempt(command string) []string {
	if !r.available(command) {
		return nil
	}
	parts := SplitCommand(command)
	if len(parts) == 0 {
		return nil
	}
	return parts
}

// available probes the command with each flag in probeFlags. Any execution
// failure for a flag (missing executable, timeout, OS error) is
// inconclusive and moves on to the next flag.
func (r *CommandResolver) available(command string) bool {
	parts := SplitCommand(command)
	if len(parts) == 0 {
		return false
	}

	for _, flag := range probeFlags {
		probe := append(append([]string{}, parts...), flag)
		res, err := r.exec.Run(probe, probeTimeout)
		if err != nil {
			r.logger.Debug("command probe failed", "command", command, "flag", flag, "err", err)
			continue
		}
		if res.ExitCode == 0 || res.ExitCode == 1 {
			r.logger.Debug("command is available", "command", command, "flag", flag, "exit_code", res.ExitCode)
			return true
		}
	}

	r.logger.Debug("command exists but is not working", "command", command)
	return false
}

// fallbackFor picks the alternative invocation to probe when the primary is
// not invocable: the bare default gains a package-runner prefix, a
// package-runner invocation of the default falls back to the bare name, and
// anything else gains the package-runner prefix generically.
func fallbackFor(command string) string {
	switch command {
	case defaultCommand:
		return packageRunner + " " + defaultCommand
	case packageRunner + " " + defaultCommand:
		return defaultCommand
	default:
		return packageRunner + " " + command
	}
}

// SplitCommand splits a command string into argv parts, keeping quoted
// segments intact. A single filesystem-path-like token containing spaces
// ("C:\Program Files\mmdc.cmd") is treated as one argument rather than
// split.
func SplitCommand(command string) []string {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return nil
	}

	parts, ok := splitQuoted(trimmed)
	if !ok || len(parts) == 0 {
		return []string{trimmed}
	}
	if treatAsSinglePath(trimmed, parts) {
		return []string{trimmed}
	}
	return parts
}

// splitQuoted is a minimal shell-style tokenizer: whitespace separates
// tokens, single and double quotes group, backslash escapes the next
// character. ok is false for unterminated quotes or a trailing escape.
func splitQuoted(s string) (parts []string, ok bool) {
	var (
		buf     strings.Builder
		quote   byte
		escaped bool
		inToken bool
	)

	flush := func() {
		if inToken {
			parts = append(parts, buf.String())
			buf.Reset()
			inToken = false
		}
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if escaped {
			buf.WriteByte(ch)
			escaped = false
			continue
		}

		switch {
		case quote == '\'':
			if ch == '\'' {
				quote = 0
			} else {
				buf.WriteByte(ch)
			}
		case quote == '"':
			switch ch {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				buf.WriteByte(ch)
			}
		case ch == '\\':
			escaped = true
			inToken = true
		case ch == '\'' || ch == '"':
			quote = ch
			inToken = true
		case ch == ' ' || ch == '\t':
			flush()
		default:
			buf.WriteByte(ch)
			inToken = true
		}
	}

	if escaped || quote != 0 {
		return nil, false
	}
	flush()
	return parts, true
}

// runnerPrefixes are commands that legitimately contain spaces and must
// never be collapsed into a single path token.
var runnerPrefixes = []string{
	"npx ", "npm ", "pnpm ", "yarn ", "node ",
	"python ", "pip ", "uv ",
	"cmd ", "powershell ", "pwsh ",
}

// treatAsSinglePath reports whether a multi-token command should instead be
// treated as one executable path: it contains both a space and a path
// separator and does not start with a known runner prefix.
func treatAsSinglePath(command string, parts []string) bool {
	if len(parts) <= 1 {
		return false
	}
	if !strings.Contains(command, " ") {
		return false
	}
	if !strings.ContainsAny(command, `/\`) {
		return false
	}

	lowered := strings.ToLower(command)
	for _, prefix := range runnerPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return false
		}
	}
	return true
}
