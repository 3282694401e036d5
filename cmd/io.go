package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/gnames/mpdb/internal/iometrics"
	"github.com/gnames/mpdb/internal/iopublish"
)

// openInput opens a file for reading, '-' stands for STDIN.
func openInput(path string) (io.ReadCloser, error) {
	if path == iopublish.Stdout {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, inputError(path, err)
	}
	return f, nil
}

// saveMetrics writes run metrics when a metrics file is configured.
// Failures are reported but do not fail the run.
func saveMetrics(m *iometrics.Metrics) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		slog.Error("Cannot save metrics", "error", err)
		return
	}
	slog.Info("Metrics saved", "path", cfg.MetricsFile)
}
