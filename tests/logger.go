package testutil

import (
	"sync"
	"time"

	"github.com/openswad/swad/core"
)

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records log calls instead of sending them anywhere.
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) add(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []LogEntry
	for _, e := range l.entries {
		if e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.add("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.add("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.add("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.add("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.add("fatal", msg, args) }

// Config returns a test configuration spooling under dir.
func Config(dir string) *core.Config {
	conf := &core.Config{AppName: "SWAD", Env: "test", Debug: true, TestMode: true}
	conf.Params.MaxFileSize = 1 << 20
	conf.Params.SpoolDir = dir
	conf.Session.Timeout = time.Hour
	return conf
}
