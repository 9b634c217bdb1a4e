package logger

import "issuance_tracker/internal/app/port"

// slogAdapter реализует интерфейс port.Logger поверх глобального логгера пакета.
// Every record carries the adapter's fixed attributes before the call arguments.
type slogAdapter struct {
	attrs []any
}

// NewSlogAdapter returns a port.Logger writing through the global logger.
// attrs are key/value pairs attached to every record, e.g. "app", "issuance-cli".
func NewSlogAdapter(attrs ...any) port.Logger {
	return &slogAdapter{attrs: attrs}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, a.with(args)...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, a.with(args)...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, a.with(args)...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, a.with(args)...) }

func (a *slogAdapter) with(args []any) []any {
	if len(a.attrs) == 0 {
		return args
	}
	out := make([]any, 0, len(a.attrs)+len(args))
	out = append(out, a.attrs...)
	return append(out, args...)
}
