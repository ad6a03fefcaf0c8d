// Package logging adapts pkg/logger to the application's port.Logger.
package logging

import (
	"context"

	"github.com/hapkiduki/landedcost/internal/application/port"
	"github.com/hapkiduki/landedcost/pkg/logger"
)

// Adapter implements port.Logger on top of *logger.Logger.
type Adapter struct {
	l *logger.Logger
}

var _ port.Logger = (*Adapter)(nil)

// NewAdapter wraps l.
func NewAdapter(l *logger.Logger) *Adapter {
	return &Adapter{l: l}
}

func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) { a.l.Debug(msg, keysAndValues...) }
func (a *Adapter) Info(msg string, keysAndValues ...interface{})  { a.l.Info(msg, keysAndValues...) }
func (a *Adapter) Warn(msg string, keysAndValues ...interface{})  { a.l.Warn(msg, keysAndValues...) }
func (a *Adapter) Error(msg string, keysAndValues ...interface{}) { a.l.Error(msg, keysAndValues...) }

// With returns an adapter whose entries carry the extra fields.
func (a *Adapter) With(keysAndValues ...interface{}) port.Logger {
	return &Adapter{l: a.l.With(keysAndValues...)}
}

// WithContext returns an adapter whose entries carry the request id found in ctx.
func (a *Adapter) WithContext(ctx context.Context) port.Logger {
	return &Adapter{l: a.l.WithContext(ctx)}
}
