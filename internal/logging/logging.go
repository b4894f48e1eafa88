// Package logging builds the named zap logger used by the CLI: a rotating log
// file teed with standard output, one line per entry.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"tenderkit/internal/config"
)

// DefaultName is the logger name used across the application
const DefaultName = "TenderAnalysisSystem"

// TimeLayout is the entry timestamp format
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var pool = buffer.NewPool()

// lineEncoder writes "<time> - <name> - <LEVEL> - <message>" followed by the
// structured fields as a JSON object when there are any.
type lineEncoder struct {
	zapcore.Encoder
}

func newLineEncoder() zapcore.Encoder {
	return &lineEncoder{Encoder: zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		SkipLineEnding: true,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
	})}
}

func (e *lineEncoder) Clone() zapcore.Encoder {
	return &lineEncoder{Encoder: e.Encoder.Clone()}
}

func (e *lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	fieldsBuf, err := e.Encoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return nil, err
	}
	defer fieldsBuf.Free()

	line := pool.Get()
	line.AppendString(ent.Time.Format(TimeLayout))
	line.AppendString(" - ")
	line.AppendString(ent.LoggerName)
	line.AppendString(" - ")
	line.AppendString(ent.Level.CapitalString())
	line.AppendString(" - ")
	line.AppendString(ent.Message)

	if extra := fieldsBuf.String(); extra != "{}" {
		line.AppendByte(' ')
		line.AppendString(extra)
	}

	line.AppendByte('\n')

	return line, nil
}

// New builds the application logger from cfg. The returned cleanup flushes
// and closes the log file.
func New(name string, cfg config.LoggingConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var (
		cores []zapcore.Core
		file  *lumberjack.Logger
	)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}

		cores = append(cores, zapcore.NewCore(newLineEncoder(), zapcore.AddSync(file), level))
	}

	if cfg.Stdout {
		cores = append(cores, zapcore.NewCore(newLineEncoder(), zapcore.Lock(os.Stdout), level))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Named(name)

	cleanup := func() {
		_ = logger.Sync()

		if file != nil {
			_ = file.Close()
		}
	}

	return logger, cleanup, nil
}

// NewWriter returns a logger writing lines to w at level and above
func NewWriter(name string, w io.Writer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(newLineEncoder(), zapcore.AddSync(w), level)
	return zap.New(core).Named(name)
}
