package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	// Output is stdout, stderr, file, or stdout+file
	Output     string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	TimeFormat string
	// Sampling keeps the first 100 identical entries per second, then
	// every 100th
	Sampling bool
	// Fields are attached to every entry
	Fields map[string]string
}

// DefaultConfig returns a console logger at info
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

// New creates a zap logger. Extra cores, such as the OTLP log bridge, are
// teed after the local output and are not sampled.
func New(cfg *Config, extra ...zapcore.Core) (*zap.Logger, error) {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = DefaultConfig().TimeFormat
	}
	writer, err := createWriter(cfg)
	if err != nil {
		return nil, err
	}

	local := zapcore.NewCore(createEncoder(cfg), writer, parseLevel(cfg.Level))
	if cfg.Sampling {
		local = zapcore.NewSamplerWithOptions(local, time.Second, 100, 100)
	}
	core := zapcore.NewTee(append([]zapcore.Core{local}, extra...)...)

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if len(cfg.Fields) > 0 {
		fields := make([]zap.Field, 0, len(cfg.Fields))
		for k, v := range cfg.Fields {
			fields = append(fields, zap.String(k, v))
		}
		opts = append(opts, zap.Fields(fields...))
	}
	return zap.New(core, opts...), nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func createEncoder(cfg *Config) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if cfg.Format != "console" {
		return zapcore.NewJSONEncoder(ec)
	}
	if !writesFile(cfg.Output) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

func writesFile(output string) bool {
	return strings.Contains(strings.ToLower(output), "file")
}

func createWriter(cfg *Config) (zapcore.WriteSyncer, error) {
	output := strings.ToLower(cfg.Output)
	if output == "stderr" {
		return zapcore.AddSync(os.Stderr), nil
	}

	var syncers []zapcore.WriteSyncer
	if output != "file" {
		syncers = append(syncers, zapcore.AddSync(os.Stdout))
	}
	if writesFile(output) {
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log output %q needs a file path", cfg.Output)
		}
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}))
	}
	return zapcore.NewMultiWriteSyncer(syncers...), nil
}

// Sync flushes buffered entries. Terminals and pipes reject fsync, those
// errors are ignored.
func Sync(logger *zap.Logger) error {
	err := logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
