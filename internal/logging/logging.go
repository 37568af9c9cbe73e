// Package logging builds the process zap logger and adapts game notices
// onto it.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pefman/orlog-duel/internal/config"
	"github.com/pefman/orlog-duel/internal/engine"
)

// New returns a logger writing cfg.LogFormat at cfg.LogLevel to cfg.LogOutput.
func New(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	outputs := cfg.LogOutput
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	zc := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Encoding:    strings.ToLower(cfg.LogFormat),
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// Notifier writes engine notices to a zap logger. Error notices log at
// warn level since they describe rejected player actions.
type Notifier struct {
	log *zap.Logger
	// Round, when set, tags each entry with the current round.
	Round func() int
}

func NewNotifier(log *zap.Logger, fields ...zap.Field) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{log: log.With(fields...)}
}

func (n *Notifier) Notify(notice engine.Notice) {
	fields := []zap.Field{zap.String("kind", string(notice.Kind))}
	if n.Round != nil {
		fields = append(fields, zap.Int("round", n.Round()))
	}
	switch notice.Kind {
	case engine.NoticeError:
		n.log.Warn(notice.Text, fields...)
	case engine.NoticeSuccess:
		n.log.Info(notice.Text, fields...)
	default:
		n.log.Debug(notice.Text, fields...)
	}
}

// Tee fans a notice out to every non-nil notifier in order.
type Tee []engine.Notifier

func (t Tee) Notify(notice engine.Notice) {
	for _, n := range t {
		if n != nil {
			n.Notify(notice)
		}
	}
}
