package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// ParseLevel maps a config string to a LogLevel. Unknown values default to info.
func ParseLevel(value string) LogLevel {
	switch strings.ToLower(value) {
	case "debug":
		return LogLevelDebug
	case "warning", "warn":
		return LogLevelWarning
	default:
		return LogLevelInfo
	}
}

// ParseFormat maps a config string to a LogFormat. Unknown values default to human.
func ParseFormat(value string) LogFormat {
	if strings.EqualFold(value, "json") {
		return LogFormatJSON
	}
	return LogFormatHuman
}

// Logger writes structured logs to a writer. It implements the rubric.Logger
// port and is shared by all commands.
type Logger struct {
	out    io.Writer
	level  LogLevel
	format LogFormat
	now    func() time.Time
}

// NewLogger creates a logger with the specified config.
func NewLogger(out io.Writer, level LogLevel, format LogFormat) *Logger {
	return &Logger{
		out:    out,
		level:  level,
		format: format,
		now:    time.Now,
	}
}

// LogDebug logs a debug message with structured fields.
func (l *Logger) LogDebug(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(LogLevelDebug, "debug", message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *Logger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(LogLevelInfo, "info", message, fields)
}

// LogWarning logs a warning message with structured fields.
func (l *Logger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(LogLevelWarning, "warning", message, fields)
}

func (l *Logger) write(level LogLevel, name, message string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	timestamp := l.now().UTC().Format(time.RFC3339)

	if l.format == LogFormatJSON {
		entry := map[string]interface{}{
			"level":     name,
			"timestamp": timestamp,
			"message":   message,
		}
		for key, value := range fields {
			entry[key] = value
		}
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.out, `{"level":"warning","message":"failed to marshal log entry: %v"}`+"\n", err)
			return
		}
		fmt.Fprintln(l.out, string(data))
		return
	}

	fmt.Fprintf(l.out, "[%s] %s %s%s\n", strings.ToUpper(name), timestamp, message, formatFields(fields))
}

// formatFields renders fields as " key=value" pairs in sorted order so human
// output stays stable.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(fmt.Sprintf(" %s=%v", key, fields[key]))
	}
	return builder.String()
}

// MaxLoggedOutputLength is the maximum length of candidate output to include
// in logs. Outputs longer than this are truncated to keep potentially
// sensitive content out of log aggregators.
const MaxLoggedOutputLength = 200

// TruncateForLogging safely truncates a candidate output string for logging.
func TruncateForLogging(output string) string {
	if len(output) <= MaxLoggedOutputLength {
		return output
	}
	return output[:MaxLoggedOutputLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(output))
}
