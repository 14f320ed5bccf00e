package parley

import "log/slog"

// Reporter is the diagnostic sink for caught failures from send, regenerate
// and copy. Failures are reported, never thrown into the rendering path.
type Reporter interface {
	Report(label string, err error)
}

// LogReporter adapts a slog.Logger to Reporter.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a Reporter backed by l. A nil l uses slog.Default().
func NewLogReporter(l *slog.Logger) *LogReporter {
	if l == nil {
		l = slog.Default()
	}
	return &LogReporter{logger: l}
}

// Report logs the failure at error level.
func (r *LogReporter) Report(label string, err error) {
	r.logger.Error(label, "err", err)
}

// NopReporter discards all reports.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(string, error) {}

// Interface compliance checks.
var (
	_ Reporter = (*LogReporter)(nil)
	_ Reporter = NopReporter{}
)
