// Package log is the leveled logger used by allocator packages. Library
// code never logs unless the application enables a component, see the
// LogComponents function in each package.
package log

import "io"
import "os"
import "fmt"
import "sync"
import "time"
import "strings"
import "sync/atomic"

import "github.com/bnclabs/mcpalloc/lib"

func init() {
	SetLogger(nil, Defaultsettings())
}

// Logger interface for allocator logging, applications can supply a
// logger object implementing this interface or fall back to the
// default logger writing to stderr.
type Logger interface {
	SetLogLevel(string)
	Fatalf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Verbosef(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Tracef(format string, v ...interface{})
	Printlf(loglevel LogLevel, format string, v ...interface{})
}

// LogLevel defines log level.
type LogLevel int

const (
	LevelIgnore LogLevel = iota + 1
	LevelFatal
	LevelError
	LevelWarn
	LevelInfo
	LevelVerbose
	LevelDebug
	LevelTrace
)

type holder struct{ Logger }

var current atomic.Pointer[holder]

// Defaultsettings for the default logger.
//
// "log.level" (string, default: "info")
//		one of ignore, fatal, error, warn, info, verbose, debug, trace.
//
// "log.file" (string, default: "")
//		append log lines to this file, empty string logs to stderr.
func Defaultsettings() lib.Settings {
	return lib.Settings{
		"log.level": "info",
		"log.file":  "",
	}
}

// SetLogger to integrate with application logging. If `logger` is nil
// a default logger is created from `setts`.
func SetLogger(logger Logger, setts lib.Settings) Logger {
	if logger == nil {
		setts = Defaultsettings().Mixin(setts)
		var output io.Writer = os.Stderr
		if logfile := setts.String("log.file"); logfile != "" {
			flags := os.O_WRONLY | os.O_APPEND | os.O_CREATE
			fd, err := os.OpenFile(logfile, flags, 0660)
			if err != nil {
				panic(err)
			}
			output = fd
		}
		dl := &defaultLogger{output: output}
		dl.SetLogLevel(setts.String("log.level"))
		logger = dl
	}
	current.Store(&holder{logger})
	return logger
}

// GetLogger return the logger in use.
func GetLogger() Logger {
	return current.Load().Logger
}

// defaultLogger serialize lines to its output.
type defaultLogger struct {
	mu     sync.Mutex
	level  atomic.Int64
	output io.Writer
}

func (l *defaultLogger) SetLogLevel(level string) {
	l.level.Store(int64(string2logLevel(level)))
}

func (l *defaultLogger) Fatalf(format string, v ...interface{}) {
	l.Printlf(LevelFatal, format, v...)
}

func (l *defaultLogger) Errorf(format string, v ...interface{}) {
	l.Printlf(LevelError, format, v...)
}

func (l *defaultLogger) Warnf(format string, v ...interface{}) {
	l.Printlf(LevelWarn, format, v...)
}

func (l *defaultLogger) Infof(format string, v ...interface{}) {
	l.Printlf(LevelInfo, format, v...)
}

func (l *defaultLogger) Verbosef(format string, v ...interface{}) {
	l.Printlf(LevelVerbose, format, v...)
}

func (l *defaultLogger) Debugf(format string, v ...interface{}) {
	l.Printlf(LevelDebug, format, v...)
}

func (l *defaultLogger) Tracef(format string, v ...interface{}) {
	l.Printlf(LevelTrace, format, v...)
}

func (l *defaultLogger) Printlf(level LogLevel, format string, v ...interface{}) {
	if !l.canlog(level) {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.999Z-07:00")
	line := ts + " [" + level.String() + "] " + fmt.Sprintf(format, v...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	l.mu.Lock()
	io.WriteString(l.output, line)
	l.mu.Unlock()
}

func (l *defaultLogger) canlog(level LogLevel) bool {
	return level <= LogLevel(l.level.Load())
}

func (l LogLevel) String() string {
	switch l {
	case LevelIgnore:
		return "Ignor"
	case LevelFatal:
		return "Fatal"
	case LevelError:
		return "Error"
	case LevelWarn:
		return "Warng"
	case LevelInfo:
		return "Infom"
	case LevelVerbose:
		return "Verbs"
	case LevelDebug:
		return "Debug"
	case LevelTrace:
		return "Trace"
	}
	panic("unexpected log level")
}

func string2logLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "ignore":
		return LevelIgnore
	case "fatal":
		return LevelFatal
	case "error":
		return LevelError
	case "warn":
		return LevelWarn
	case "info":
		return LevelInfo
	case "verbose":
		return LevelVerbose
	case "debug":
		return LevelDebug
	case "trace":
		return LevelTrace
	}
	panic(fmt.Errorf("unexpected log level %q", s))
}

func Fatalf(format string, v ...interface{}) {
	GetLogger().Printlf(LevelFatal, format, v...)
}

func Errorf(format string, v ...interface{}) {
	GetLogger().Printlf(LevelError, format, v...)
}

func Warnf(format string, v ...interface{}) {
	GetLogger().Printlf(LevelWarn, format, v...)
}

func Infof(format string, v ...interface{}) {
	GetLogger().Printlf(LevelInfo, format, v...)
}

func Verbosef(format string, v ...interface{}) {
	GetLogger().Printlf(LevelVerbose, format, v...)
}

func Debugf(format string, v ...interface{}) {
	GetLogger().Printlf(LevelDebug, format, v...)
}

func Tracef(format string, v ...interface{}) {
	GetLogger().Printlf(LevelTrace, format, v...)
}

// Gate enable logging for a set of component names, shared by packages
// that log only after the application asks them to.
type Gate struct {
	names []string
	ok    atomic.Bool
}

// NewGate for a package that answers to `names`, "all" always matches.
func NewGate(names ...string) *Gate {
	return &Gate{names: names}
}

// Enable logging if any of components match this gate.
func (g *Gate) Enable(components ...string) {
	for _, comp := range components {
		if comp == "all" {
			g.ok.Store(true)
			return
		}
		for _, name := range g.names {
			if comp == name {
				g.ok.Store(true)
				return
			}
		}
	}
}

// Disable logging for this gate.
func (g *Gate) Disable() {
	g.ok.Store(false)
}

// Enabled return whether component logging is on.
func (g *Gate) Enabled() bool {
	return g.ok.Load()
}

func (g *Gate) Errorf(format string, v ...interface{}) {
	if g.ok.Load() {
		Errorf(format, v...)
	}
}

func (g *Gate) Warnf(format string, v ...interface{}) {
	if g.ok.Load() {
		Warnf(format, v...)
	}
}

func (g *Gate) Infof(format string, v ...interface{}) {
	if g.ok.Load() {
		Infof(format, v...)
	}
}

func (g *Gate) Debugf(format string, v ...interface{}) {
	if g.ok.Load() {
		Debugf(format, v...)
	}
}

func (g *Gate) Tracef(format string, v ...interface{}) {
	if g.ok.Load() {
		Tracef(format, v...)
	}
}
