package logger

import (
	"io"
	"log/slog"

	"portfolio_oracle/internal/app/port"
)

// slogAdapter реализует интерфейс port.Logger поверх slog.
// Без собственного логгера делегирует глобальным функциям пакета.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter создает адаптер, пишущий в глобальный логгер.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// Named returns an adapter that tags every record with component=name.
func Named(name string) port.Logger {
	return &slogAdapter{l: current().With("component", name)}
}

// Nop discards everything; used by tests and by the CLI in quiet mode.
func Nop() port.Logger {
	return &slogAdapter{l: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func (a *slogAdapter) Info(msg string, args ...any) {
	if a.l != nil {
		a.l.Info(msg, args...)
		return
	}
	Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	if a.l != nil {
		a.l.Debug(msg, args...)
		return
	}
	Debug(msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	if a.l != nil {
		a.l.Warn(msg, args...)
		return
	}
	Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	if a.l != nil {
		a.l.Error(msg, args...)
		return
	}
	Error(msg, args...)
}
