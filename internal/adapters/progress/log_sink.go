package progress

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// LogSink sends progress to the logger instead of the terminal. It is used
// for --json and --non-interactive runs where stdout must stay parseable.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a new log-backed progress sink
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("component", "progress")}
}

// OnProgress logs the event at debug level
func (s *LogSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.log.DebugContext(ctx, event.Message, "stage", event.Stage)
}

// Info logs message at info level
func (s *LogSink) Info(message string) {
	s.log.Info(message)
}

// Error logs message at error level
func (s *LogSink) Error(message string) {
	s.log.Error(message)
}

var _ usecase.ProgressSink = (*LogSink)(nil)
