package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rivo/tview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Types int

const (
	Info Types = iota
	Error
	Warn
)

// Logger writes tagged messages to the debug console (dev mode) and to the
// zap sinks configured by InitLogger.
type Logger struct {
	view *tview.TextView
	tag  string
	dev  bool
	zl   *zap.Logger
}

type manager struct {
	view     *tview.TextView
	dev      bool
	base     *zap.Logger
	file     *os.File
	buffered *zapcore.BufferedWriteSyncer
}

var (
	logManager *manager
	once       sync.Once
)

// InitLogger configures the process-wide sinks. Only the first call has an
// effect. With dev set, messages go to view, or to stderr when view is nil.
// With logPath set, a timestamped log file is created in that directory.
func InitLogger(dev bool, logPath string, view *tview.TextView) error {
	var err error
	once.Do(func() {
		logManager, err = newManager(dev, logPath, view)
	})
	return err
}

func newManager(dev bool, logPath string, view *tview.TextView) (*manager, error) {
	m := &manager{view: view, dev: dev}

	level := zapcore.InfoLevel
	if dev {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if logPath != "" {
		timestamp := time.Now().Format("20060102_150405")
		fileName := fmt.Sprintf("roastbattle_log_%s.log", timestamp)

		file, err := os.OpenFile(filepath.Join(logPath, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		m.file = file
		m.buffered = &zapcore.BufferedWriteSyncer{WS: zapcore.AddSync(file), FlushInterval: time.Second}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), m.buffered, level))
	}

	if dev && view == nil {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level))
	}

	if len(cores) == 0 {
		m.base = zap.NewNop()
	} else {
		m.base = zap.New(zapcore.NewTee(cores...))
	}
	return m, nil
}

// NewLogger returns a logger for one component. Before InitLogger it returns
// a logger that discards everything.
func NewLogger(tag string) *Logger {
	if logManager == nil {
		return &Logger{tag: tag, zl: zap.NewNop()}
	}
	return logManager.newLogger(tag)
}

func (m *manager) newLogger(tag string) *Logger {
	return &Logger{
		view: m.view,
		tag:  tag,
		dev:  m.dev,
		zl:   m.base.Named(tag),
	}
}

func (l *Logger) log(logTypes Types, v ...interface{}) {
	message := strings.TrimSuffix(fmt.Sprintln(v...), "\n")

	if l.dev && l.view != nil {
		var format string
		switch logTypes {
		case Info:
			format = "[green]DEBUG (%s): %s[-]\n"
		case Warn:
			format = "[yellow]DEBUG (%s): %s[-]\n"
		default:
			format = "[red]DEBUG (%s): %s[-]\n"
		}
		fmt.Fprintf(l.view, format, l.tag, tview.Escape(message))
	}

	switch logTypes {
	case Info:
		l.zl.Info(message)
	case Warn:
		l.zl.Warn(message)
	default:
		l.zl.Error(message, zap.String("type", logTypes.toString()))
	}
}

func (l *Logger) Info(v ...interface{}) {
	l.log(Info, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(Error, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(Warn, v...)
}

// With returns a logger that attaches fields to everything written to the
// zap sinks.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{view: l.view, tag: l.tag, dev: l.dev, zl: l.zl.With(fields...)}
}

// Close flushes pending log lines and closes the log file.
func Close() error {
	if logManager == nil {
		return nil
	}
	return logManager.close()
}

func (m *manager) close() error {
	_ = m.base.Sync()
	if m.buffered != nil {
		if err := m.buffered.Stop(); err != nil {
			return err
		}
	}
	if m.file != nil {
		return m.file.Close()
	}
	return nil
}

func (t Types) toString() string {
	switch t {
	case Info:
		return "INFO"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}
