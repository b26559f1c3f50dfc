package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"msts/internal/constants"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// ColorMode 终端着色模式
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Options 日志配置
type Options struct {
	Level     string
	Verbosity int // -v 计数，大于 0 时覆盖 Level
	Format    string
	Output    string
	File      string
	Color     ColorMode
}

// Configure 按配置创建 logrus 日志并设为默认 Logger
// 返回的 io.Closer 用于关闭日志文件（非文件输出时为空操作）
func Configure(opts Options) (Logger, io.Closer, error) {
	l := logrus.New()

	level, err := resolveLevel(opts.Level, opts.Verbosity)
	if err != nil {
		return nil, nil, err
	}
	l.SetLevel(level)

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch opts.Output {
	case "", constants.LogOutputStderr:
	case constants.LogOutputStdout:
		out = os.Stdout
	case constants.LogOutputFile:
		if opts.File == "" {
			return nil, nil, fmt.Errorf("log output is %q but no log file is set", opts.Output)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = file, file
	default:
		return nil, nil, fmt.Errorf("invalid log output: %s", opts.Output)
	}
	l.SetOutput(out)

	switch opts.Format {
	case "", constants.LogFormatText:
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
			ForceColors:     useColor(opts.Color, out),
			DisableColors:   !useColor(opts.Color, out),
		})
	case constants.LogFormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		closer.Close()
		return nil, nil, fmt.Errorf("invalid log format: %s", opts.Format)
	}

	logger := NewLogrusLogger(l)
	SetDefault(logger)
	return logger, closer, nil
}

// resolveLevel -v 提升到 debug，-vv 及以上提升到 trace
func resolveLevel(level string, verbosity int) (logrus.Level, error) {
	switch {
	case verbosity >= 2:
		return logrus.TraceLevel, nil
	case verbosity == 1:
		return logrus.DebugLevel, nil
	}
	if level == "" {
		return logrus.InfoLevel, nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
	return parsed, nil
}

// useColor 判断是否启用颜色输出
func useColor(mode ColorMode, out io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return IsTerminal(out)
}

// IsTerminal 判断输出是否为终端
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
