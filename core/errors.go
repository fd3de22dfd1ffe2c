package core

import "fmt"

// maxDiagramContext bounds how much diagram source is carried inside an
// error, keeping messages readable when a diagram is large.
const maxDiagramContext = 200

// TruncateDiagram shortens diagram source for inclusion in errors and logs.
func TruncateDiagram(code string) string {
	if len(code) > maxDiagramContext {
		return code[:maxDiagramContext] + "..."
	}
	return code
}

// CLIError reports a failed or unavailable renderer CLI invocation.
// ExitCode is -1 when the process never ran (not found, timed out).
type CLIError struct {
	Message  string
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CLIError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("%s (command: %s)", e.Message, e.Command)
	}
	return e.Message
}

// ImageError reports a render that ran but produced no usable image.
type ImageError struct {
	Message       string
	ImagePath     string
	Format        string
	DiagramSource string
	Suggestion    string
}

func (e *ImageError) Error() string {
	return e.Message
}

// FileError reports a filesystem problem during artifact or output handling.
type FileError struct {
	Message    string
	Path       string
	Op         string // "read", "write", "create", "cleanup"
	Suggestion string
	Err        error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FileError) Unwrap() error { return e.Err }

// ParsingError reports an internal consistency failure between extracted
// blocks and generated images. It always surfaces regardless of the
// error_on_fail policy because it signals a bug, not a bad document.
type ParsingError struct {
	Message       string
	SourceFile    string
	DiagramSource string
}

func (e *ParsingError) Error() string {
	if e.SourceFile != "" {
		return fmt.Sprintf("%s (source: %s)", e.Message, e.SourceFile)
	}
	return e.Message
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Message    string
	Key        string
	Suggestion string
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s (key: %s)", e.Message, e.Key)
	}
	return e.Message
}
