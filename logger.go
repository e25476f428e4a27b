package palettize

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with palettize-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithMethod adds a clustering-method field to the logger.
func (l *Logger) WithMethod(method string) *Logger {
	return &Logger{
		Logger: l.Logger.With("method", method),
	}
}

// WithSpace adds a color-space field to the logger.
func (l *Logger) WithSpace(space string) *Logger {
	return &Logger{
		Logger: l.Logger.With("space", space),
	}
}

// WithK adds a cluster-count field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogQuantize logs a completed quantize operation.
func (l *Logger) LogQuantize(ctx context.Context, method string, k int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "quantize failed",
			"method", method,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "quantize completed",
			"method", method,
			"k", k,
			"duration", duration,
		)
	}
}

// LogLloyd logs the outcome of a Lloyd run.
func (l *Logger) LogLloyd(ctx context.Context, iterations int, converged bool, maxMovement float32) {
	l.DebugContext(ctx, "lloyd finished",
		"iterations", iterations,
		"converged", converged,
		"max_movement", maxMovement,
	)
}

// LogGrowth logs how an adaptive run grew the clustering.
func (l *Logger) LogGrowth(ctx context.Context, rounds, tried, accepted, finalK int) {
	l.DebugContext(ctx, "adaptive growth finished",
		"rounds", rounds,
		"splits_tried", tried,
		"splits_accepted", accepted,
		"k", finalK,
	)
}
