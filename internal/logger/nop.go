package logger

import "context"

// Nop is a LoggerInterface that discards everything. Useful as a default
// when a caller does not supply a logger.
type Nop struct{}

var _ LoggerInterface = Nop{}

func (Nop) Debug(context.Context, string, ...any)          {}
func (Nop) Info(context.Context, string, ...any)           {}
func (Nop) Warn(context.Context, string, ...any)           {}
func (Nop) Error(context.Context, string, ...any)          {}
func (Nop) Debugc(context.Context, int, string, ...any)    {}
func (Nop) Infoc(context.Context, int, string, ...any)     {}
func (Nop) Warnc(context.Context, int, string, ...any)     {}
func (Nop) Errorc(context.Context, int, string, ...any)    {}
