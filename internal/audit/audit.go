// Package audit records directory operations as structured JSON log entries.
package audit

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smileynet/usermgr/internal/directory"
)

// Logger writes one entry per operator action. The zero value is not usable;
// use Open, New or Nop.
type Logger struct {
	z *zap.Logger
}

// Open returns a Logger appending JSON lines to path.
// An empty path returns a no-op Logger.
func Open(path string) (*Logger, error) {
	if path == "" {
		return Nop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("audit: opening %s: %w", path, err)
	}
	return New(z), nil
}

// New wraps an existing zap logger.
func New(z *zap.Logger) *Logger {
	return &Logger{z: z.Named("audit")}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// Close flushes buffered entries.
func (l *Logger) Close() error {
	return l.z.Sync()
}

// Added records a successful Add.
func (l *Logger) Added(r directory.Record) {
	l.z.Info("user added", recordFields(r)...)
}

// Deleted records a successful delete and the term that selected it.
func (l *Logger) Deleted(pattern string, r directory.Record) {
	l.z.Info("user deleted", append([]zap.Field{zap.String("pattern", pattern)}, recordFields(r)...)...)
}

// Updated records an update with the record's values before and after.
func (l *Logger) Updated(term string, before, after directory.Record) {
	l.z.Info("user updated",
		zap.String("term", term),
		zap.Object("before", recordMarshaler(before)),
		zap.Object("after", recordMarshaler(after)),
	)
}

// Saved records a successful save.
func (l *Logger) Saved(path string, count int) {
	l.z.Info("users saved", zap.String("path", path), zap.Int("count", count))
}

// Loaded records a successful load.
func (l *Logger) Loaded(path string, count int) {
	l.z.Info("users loaded", zap.String("path", path), zap.Int("count", count))
}

// Failed records an action that ended with an error.
func (l *Logger) Failed(action string, err error) {
	l.z.Warn("action failed", zap.String("action", action), zap.Error(err))
}

func recordFields(r directory.Record) []zap.Field {
	return []zap.Field{
		zap.String("first_name", r.FirstName),
		zap.String("last_name", r.LastName),
		zap.String("email", r.Email),
		zap.String("phone", r.Phone),
	}
}

type recordMarshaler directory.Record

func (r recordMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("first_name", r.FirstName)
	enc.AddString("last_name", r.LastName)
	enc.AddString("email", r.Email)
	enc.AddString("phone", r.Phone)
	return nil
}
