package session

import (
	"log/slog"
	"time"
)

const DefaultSlowThreshold = 100 * time.Millisecond

// QueryLogger writes query events of a DbSession to a slog.Logger.
type QueryLogger struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

type QueryLoggerOption func(*QueryLogger)

func WithSlowThreshold(d time.Duration) QueryLoggerOption {
	return func(l *QueryLogger) {
		l.slowThreshold = d
	}
}

func NewQueryLogger(logger *slog.Logger, opts ...QueryLoggerOption) *QueryLogger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &QueryLogger{
		logger:        logger,
		slowThreshold: DefaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Observe attaches the logger to the session signals and returns a function
// detaching it again.
func (l *QueryLogger) Observe(s DbSession) func() {
	detachStarted := s.OnQueryStarted().Attach(l.started, l)
	detachEnded := s.OnQueryEnded().Attach(l.ended, l)
	return func() {
		detachStarted()
		detachEnded()
	}
}

func (l *QueryLogger) started(e QueryStartedEvent) error {
	l.logger.Debug("query started", "query", e.Query, "args", e.Params)
	return nil
}

func (l *QueryLogger) ended(e QueryEndedEvent) error {
	switch {
	case e.Err != nil:
		l.logger.Error("query failed", "query", e.Query, "duration", e.ResponseTime, "error", e.Err)
	case l.slowThreshold > 0 && e.ResponseTime >= l.slowThreshold:
		l.logger.Warn("slow query detected", "query", e.Query, "args", e.Params, "duration", e.ResponseTime)
	default:
		l.logger.Debug("query finished", "query", e.Query, "duration", e.ResponseTime)
	}
	return nil
}
