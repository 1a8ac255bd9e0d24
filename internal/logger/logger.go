// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// game-web writes lifecycle and error events to one JSON log per day under
// `<dir>/YYYY-MM-DD.log`.  When stderr is an interactive TTY the same
// events are teed there through the console encoder.  The file name is
// re-checked on every write, so a long-running server moves to the next
// day's file at midnight.  Size rotation, compression, and retention are
// handled by Lumberjack.
//
// `NewConsole` is the file-less variant for one-shot commands that must
// not touch the disk.
//
// Stdout is left alone: the entry point prints the loaded configuration
// there and downstream tooling reads it verbatim.
//
// Usage
// -----
//
//	log, err := logger.New(logger.Options{Dir: "logs", Level: "info"})
//	if err != nil { … }
//	log.Infow("listening", "addr", cfg.Server.Addr())
//
// Notes
// -----
//   - ISO-8601 timestamps and lowercase levels.
//   - Internal zap errors go to the same file sink via `ErrorOutput`.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how much to log.
type Options struct {
	Dir     string    // log directory, created if missing
	Level   string    // debug, info, warn, error; empty means info
	Console io.Writer // optional tee target, typically os.Stderr
	Now     func() time.Time
}

// New returns a *zap.SugaredLogger writing JSON to <Dir>/YYYY-MM-DD.log,
// teed to Console when it is non-nil.  The file rolls over to a new name
// on the first write after midnight.  The logger is installed as the
// process-wide default via zap.ReplaceGlobals.
func New(opts Options) (*zap.SugaredLogger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}

	fileSink := &dailyFile{dir: opts.Dir, now: opts.Now}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileSink, level),
	}
	if opts.Console != nil {
		cores = append(cores, consoleCore(opts.Console, level))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(fileSink),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "dir", opts.Dir, "level", level.String(), "tee", opts.Console != nil)
	return z, nil
}

// NewConsole is New without the file sink: events go to Console only, or
// nowhere when Console is nil.  Dir is ignored and nothing is created on
// disk.
func NewConsole(opts Options) (*zap.SugaredLogger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	z := zap.NewNop()
	if opts.Console != nil {
		z = zap.New(consoleCore(opts.Console, level), zap.AddCaller())
	}
	zap.ReplaceGlobals(z)
	return z.Sugar(), nil
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:      "ts",
	LevelKey:     "level",
	MessageKey:   "msg",
	CallerKey:    "caller",
	EncodeTime:   zapcore.ISO8601TimeEncoder,
	EncodeLevel:  zapcore.LowercaseLevelEncoder,
	EncodeCaller: zapcore.ShortCallerEncoder,
}

func consoleCore(w io.Writer, level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
}

// parseLevel maps an empty string to info.
func parseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return lvl, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

//
// daily file sink
//

// dailyFile is a zapcore.WriteSyncer over one lumberjack.Logger per
// calendar day.  Size-based rotation within a day stays with Lumberjack.
type dailyFile struct {
	dir string
	now func() time.Time

	mu   sync.Mutex
	name string
	lj   *lumberjack.Logger
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name := FileName(d.now()); name != d.name {
		if d.lj != nil {
			_ = d.lj.Close()
		}
		d.name = name
		d.lj = &lumberjack.Logger{
			Filename:   filepath.Join(d.dir, name),
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		}
	}
	return d.lj.Write(p)
}

// Sync is a no-op: Lumberjack writes straight to the file.
func (d *dailyFile) Sync() error { return nil }

// FileName is the daily log file name for t.
func FileName(t time.Time) string {
	return t.Format("2006-01-02") + ".log"
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
