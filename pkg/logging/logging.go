// Package logging builds the zap loggers used by the negsel command.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level and outputs.
type Config struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Console bool   `mapstructure:"console" yaml:"console"`
	// Path of the log file; empty disables file output.
	Path string `mapstructure:"path" yaml:"path"`
	// RotationHours > 0 rotates Path through strftime suffixed files.
	RotationHours int `mapstructure:"rotation_hours" yaml:"rotation_hours"`
	MaxAgeDays    int `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// DefaultConfig logs info and above to the console only.
func DefaultConfig() Config {
	return Config{Level: "info", Console: true, MaxAgeDays: 7}
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zap.DebugLevel, nil
	case "", "INFO":
		return zap.InfoLevel, nil
	case "WARN", "WARNING":
		return zap.WarnLevel, nil
	case "ERROR":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, errors.Errorf("unknown log level %q", s)
}

// EncoderConfig is the console layout: "[LEVEL]" tags, millisecond
// timestamps and short callers.
func EncoderConfig() zapcore.EncoderConfig {
	levelEncoder := func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + level.CapitalString() + "]")
	}
	timeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "line",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

// New builds a named logger. Console output goes to stderr so command
// results on stdout stay machine readable. The returned function flushes the
// logger and closes the log file, if any.
func New(name string, cfg Config) (*zap.Logger, func(), error) {
	return NewWithConsole(name, cfg, os.Stderr)
}

// NewWithConsole is New with an explicit console writer.
func NewWithConsole(name string, cfg Config, console io.Writer) (*zap.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		syncers []zapcore.WriteSyncer
		file    io.WriteCloser
	)
	if cfg.Console && console != nil {
		syncers = append(syncers, zapcore.AddSync(console))
	}
	if cfg.Path != "" {
		file, err = fileWriter(cfg)
		if err != nil {
			return nil, nil, err
		}
		syncers = append(syncers, zapcore.AddSync(file))
	}
	if len(syncers) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(EncoderConfig()),
		zapcore.NewMultiWriteSyncer(syncers...),
		zap.NewAtomicLevelAt(level),
	)
	logger := zap.New(core, zap.AddCaller()).Named(name)

	closeFn := func() {
		_ = logger.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return logger, closeFn, nil
}

func fileWriter(cfg Config) (io.WriteCloser, error) {
	if cfg.RotationHours <= 0 {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		return f, nil
	}

	opts := []rotatelogs.Option{
		rotatelogs.WithRotationTime(time.Duration(cfg.RotationHours) * time.Hour),
		rotatelogs.WithLinkName(cfg.Path),
	}
	if cfg.MaxAgeDays > 0 {
		opts = append(opts, rotatelogs.WithMaxAge(time.Duration(cfg.MaxAgeDays)*24*time.Hour))
	}
	w, err := rotatelogs.New(cfg.Path+".%Y%m%d%H", opts...)
	if err != nil {
		return nil, errors.Wrap(err, "rotate log file")
	}
	return w, nil
}
