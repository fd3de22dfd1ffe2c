package mermaid

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// cleanupEntry tags a temp artifact with a human-readable label for logs.
type cleanupEntry struct {
	label string
	path  string
}

// Artifacts is the set of filesystem side-effects of one render invocation:
// the diagram source temp file plus optional renderer-config and
// puppeteer-config temp files. Every owned artifact is recorded before the
// subprocess runs, so Cleanup always knows what to remove even when the
// invocation fails. Artifacts are owned exclusively by the invocation that
// created them.
type Artifacts struct {
	SourcePath          string
	MermaidConfigPath   string
	PuppeteerConfigPath string

	cleanup []cleanupEntry
}

// Cleanup removes every owned artifact. Failures are logged at warning
// level with a remediation suggestion and never propagated: they cannot
// affect the correctness of already-produced output.
func (a *Artifacts) Cleanup(logger *log.Logger) {
	for _, entry := range a.cleanup {
		if entry.path == "" {
			continue
		}
		err := os.Remove(entry.path)
		switch {
		case err == nil:
			logger.Debug("cleaned artifact", "artifact", entry.label, "path", entry.path)
		case os.IsNotExist(err):
		default:
			logger.Warn("failed to clean up artifact",
				"artifact", entry.label, "path", entry.path,
				"err", err, "suggestion", cleanupSuggestion(err))
		}
	}
}

func cleanupSuggestion(err error) string {
	if os.IsPermission(err) {
		return "check file permissions or run with privileges"
	}
	return "file may be locked by another process; try again"
}

// artifactManager prepares per-invocation temp files. Configured config
// files are reused without owning their cleanup; synthesized ones are owned.
type artifactManager struct {
	mermaidConfig   string // configured renderer-config file path, may be empty
	puppeteerConfig string // configured puppeteer-config file path, may be empty
	logger          *log.Logger
}

// Prepare writes the diagram source to a temp file, ensures the output
// directory exists, and resolves the renderer and puppeteer config files.
func (m *artifactManager) Prepare(code, outputPath string) (*Artifacts, error) {
	a := &Artifacts{}

	source, err := writeTemp("mermaidpipe-*.mmd", []byte(code))
	if err != nil {
		return nil, &core.FileError{
			Message:    "writing diagram source to temp file",
			Path:       source,
			Op:         "write",
			Suggestion: "check temp directory permissions and disk space",
			Err:        err,
		}
	}
	a.SourcePath = source
	a.cleanup = append(a.cleanup, cleanupEntry{"diagram source", source})

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		a.Cleanup(m.logger)
		return nil, &core.FileError{
			Message:    "creating image output directory",
			Path:       filepath.Dir(outputPath),
			Op:         "create",
			Suggestion: "check permissions on the output directory",
			Err:        err,
		}
	}

	if mermaidCfg, owned := m.resolveMermaidConfig(); mermaidCfg != "" {
		a.MermaidConfigPath = mermaidCfg
		if owned {
			a.cleanup = append(a.cleanup, cleanupEntry{"mermaid config", mermaidCfg})
		}
	}

	if puppeteerCfg, owned := m.resolvePuppeteerConfig(); puppeteerCfg != "" {
		a.PuppeteerConfigPath = puppeteerCfg
		if owned {
			a.cleanup = append(a.cleanup, cleanupEntry{"puppeteer config", puppeteerCfg})
		}
	}

	return a, nil
}

// resolveMermaidConfig reuses a configured renderer-config path when one is
// set; otherwise it synthesizes a config disabling HTML labels, a known
// source of inconsistent rendering. The boolean reports cleanup ownership.
func (m *artifactManager) resolveMermaidConfig() (string, bool) {
	if m.mermaidConfig != "" {
		return m.mermaidConfig, false
	}

	defaults := map[string]any{
		"htmlLabels": false,
		"flowchart":  map[string]any{"htmlLabels": false},
		"class":      map[string]any{"htmlLabels": false},
	}
	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		m.logger.Warn("failed to encode default mermaid config", "err", err)
		return "", false
	}

	path, err := writeTemp("mermaidpipe-config-*.json", data)
	if err != nil {
		m.logger.Warn("failed to create mermaid config file", "err", err)
		return "", false
	}
	m.logger.Debug("created mermaid config file", "path", path)
	return path, true
}

// resolvePuppeteerConfig reuses a configured puppeteer-config path when it
// exists; otherwise it synthesizes one disabling the browser sandbox, which
// is required in containerized and CI execution contexts.
func (m *artifactManager) resolvePuppeteerConfig() (string, bool) {
	if m.puppeteerConfig != "" {
		if _, err := os.Stat(m.puppeteerConfig); err == nil {
			return m.puppeteerConfig, false
		}
		m.logger.Warn("puppeteer config file not found, using defaults", "path", m.puppeteerConfig)
	}

	cfg := defaultPuppeteerConfig()
	data, err := json.Marshal(cfg)
	if err != nil {
		m.logger.Warn("failed to encode puppeteer config", "err", err)
		return "", false
	}

	path, err := writeTemp("mermaidpipe-puppeteer-*.json", data)
	if err != nil {
		m.logger.Warn("failed to create puppeteer config file", "err", err)
		return "", false
	}
	return path, true
}

// browserCandidates are probed in order when no executable is configured.
var browserCandidates = []string{"google-chrome", "chromium-browser", "chromium"}

func defaultPuppeteerConfig() map[string]any {
	args := []string{
		"--no-sandbox",
		"--disable-setuid-sandbox",
		"--disable-dev-shm-usage",
		"--disable-web-security",
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		args = append(args, "--single-process", "--no-zygote")
	}

	cfg := map[string]any{"args": args}
	for _, browser := range browserCandidates {
		if path, err := exec.LookPath(browser); err == nil {
			cfg["executablePath"] = path
			break
		}
	}
	return cfg
}

// writeTemp creates a uniquely named temp file with the given contents.
func writeTemp(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
