package testutil

import "sync"

// LogEntry is one call captured by RecordingLogger
type LogEntry struct {
	Level   string
	Module  string
	Message string
	Details map[string]interface{}
}

// RecordingLogger implements logger.ILogger and keeps every entry in memory
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) record(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Module: module, Message: message, Details: details})
}

func (l *RecordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.record("DEBUG", module, message, details)
}

func (l *RecordingLogger) Info(module, message string, details map[string]interface{}) {
	l.record("INFO", module, message, details)
}

func (l *RecordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.record("WARN", module, message, details)
}

func (l *RecordingLogger) Error(module, message string, details map[string]interface{}) {
	l.record("ERROR", module, message, details)
}

func (l *RecordingLogger) Sync() error { return nil }

// Entries returns the captured entries of a level, all levels when level is empty
func (l *RecordingLogger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
