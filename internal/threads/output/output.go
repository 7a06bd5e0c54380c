// Package output provides the diagnostic sink used to report lock misuse.
//
// The sink is advisory infrastructure: every message sent through it is
// fire-and-forget, never consulted by callers, and never changes control flow.
// The locking layer emits warnings here when its debug instrumentation detects
// suspicious lock transitions (double lock, unlock of an unlocked mutex).
//
// The default sink writes through a zap logger to stderr. Embedding runtimes
// that already own a logging pipeline can install their own Sink with
// SetDefault; tests use Recorder to capture emissions.
package output

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Severity classifies a diagnostic message.
type Severity int8

// Severity levels, ordered by importance.
const (
	// SeverityInfo is informational output (currently unused by the core).
	SeverityInfo Severity = iota
	// SeverityWarning reports detected misuse that execution survives.
	SeverityWarning
	// SeverityError reports conditions that should never occur.
	SeverityError
)

// String returns the string representation of a Severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Location identifies the source position a diagnostic refers to, typically
// the call site that acquired or released a mutex.
type Location struct {
	// File is the source file path. Empty when no site was recorded.
	File string

	// Line is the 1-indexed line number within File.
	Line int
}

// IsZero reports whether no source position was recorded.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// String formats the location as "file:line", or "unknown" when empty.
func (l Location) String() string {
	if l.IsZero() {
		return "unknown"
	}
	return l.File + ":" + itoa(l.Line)
}

// itoa converts a non-negative line number without pulling in fmt on the
// emission path.
func itoa(n int) string {
	if n < 0 {
		return "?"
	}
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Sink consumes diagnostic messages.
//
// Emit must not block for long and must tolerate concurrent calls; the
// locking layer calls it from arbitrary caller contexts. The return of Emit
// is intentionally absent: diagnostics are fire-and-forget.
type Sink interface {
	Emit(sev Severity, msg string, loc Location)
}

// zapSink adapts a zap.Logger to the Sink interface.
type zapSink struct {
	log *zap.Logger
}

// NewZapSink returns a Sink that forwards messages to the given zap logger.
//
// The location is attached as a "site" field so log aggregation can group
// warnings by acquisition site.
func NewZapSink(log *zap.Logger) Sink {
	return &zapSink{log: log}
}

// Emit implements Sink.
func (s *zapSink) Emit(sev Severity, msg string, loc Location) {
	fields := []zap.Field{zap.String("site", loc.String())}
	switch sev {
	case SeverityError:
		s.log.Error(msg, fields...)
	case SeverityWarning:
		s.log.Warn(msg, fields...)
	default:
		s.log.Info(msg, fields...)
	}
}

// defaultSink is the process-wide sink. Like the thread-mode hint, it is a
// plain variable: it is expected to be installed once during startup, before
// any concurrent activity, and read-only afterwards.
var defaultSink = newStderrSink()

// newStderrSink builds the out-of-the-box zap sink: console encoding to
// stderr, warnings and above only.
func newStderrSink() Sink {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.WarnLevel,
	)
	return NewZapSink(zap.New(core))
}

// Default returns the process-wide sink.
func Default() Sink {
	return defaultSink
}

// SetDefault installs sink as the process-wide sink. A nil sink restores the
// stderr default. Intended to be called once during startup configuration.
func SetDefault(sink Sink) {
	if sink == nil {
		defaultSink = newStderrSink()
		return
	}
	defaultSink = sink
}
