package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.hmr-core/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".hmr-core", "logs")
	}
	return filepath.Join(home, ".hmr-core", "logs")
}

// DefaultLogPath returns the default application log path: the slog JSON
// stream produced by Setup (pipeline lifecycle, adapter warmup, errors).
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "hmr-core.log")
}

// DiagnosticsLogPath returns the path for the diagnostics feature stream
// (one core.DiagnosticsRecord per query) when it is configured to write to
// its own rotating file instead of sharing the application logger.
func DiagnosticsLogPath() string {
	return filepath.Join(DefaultLogDir(), "diagnostics.log")
}

// LogSource represents the source of logs to view.
type LogSource string

const (
	// LogSourceApp is the pipeline's own operational logs (default).
	LogSourceApp LogSource = "app"
	// LogSourceDiagnostics is the per-query DiagnosticsRecord stream.
	LogSourceDiagnostics LogSource = "diagnostics"
)

// FindLogFile attempts to find the log file for viewing.
// Priority:
// 1. Explicit path (if provided)
// 2. ~/.hmr-core/logs/hmr-core.log (global)
//
// Returns an error if no log file is found.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	globalPath := DefaultLogPath()
	if _, err := os.Stat(globalPath); err == nil {
		return globalPath, nil
	}

	return "", fmt.Errorf("no log file found. Run with debug logging enabled first.\nExpected at: %s", globalPath)
}

// FindLogFileBySource resolves the log file path for the given source.
func FindLogFileBySource(source LogSource, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	var path string
	switch source {
	case LogSourceApp:
		path = DefaultLogPath()
	case LogSourceDiagnostics:
		path = DiagnosticsLogPath()
	default:
		return "", fmt.Errorf("unknown log source: %s (use: app, diagnostics)", source)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no log file found for source '%s'.\nExpected at: %s\n\n%s", source, path, getLogHint(source))
	}
	return path, nil
}

// ParseLogSource parses a string into a LogSource.
func ParseLogSource(s string) LogSource {
	if s == "diagnostics" {
		return LogSourceDiagnostics
	}
	return LogSourceApp
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	dir := DefaultLogDir()
	return os.MkdirAll(dir, 0o755)
}

// getLogHint returns a helpful message on how to generate logs for the given source.
func getLogHint(source LogSource) string {
	switch source {
	case LogSourceApp:
		return "To generate application logs, run hmr-bench with debug logging enabled."
	case LogSourceDiagnostics:
		return "To generate diagnostics logs, run a query with a file-backed DiagnosticsSink configured."
	default:
		return ""
	}
}
