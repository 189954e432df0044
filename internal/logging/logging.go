package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init routes the standard logger to an append-only log file. Console
// output is owned by the report runner, so an empty path discards log lines.
// Calling Init again closes the previous file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	if strings.TrimSpace(logPath) == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	if dir := filepath.Dir(logPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = file
	log.SetOutput(logFile)
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogFileEvent records a per-file extraction event.
func LogFileEvent(level, source, file, message string) {
	log.Println(buildFileMessage(level, source, file, message))
}

func buildFileMessage(level, source, file, message string) string {
	lvl := strings.ToUpper(strings.TrimSpace(level))
	if lvl == "" {
		lvl = "INFO"
	}
	sourceValue := strings.TrimSpace(source)
	if sourceValue == "" {
		sourceValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", lvl)}
	parts = append(parts, fmt.Sprintf("source=%s", sourceValue))
	if file = strings.TrimSpace(file); file != "" {
		parts = append(parts, fmt.Sprintf("file=%s", file))
	}
	parts = append(parts, fmt.Sprintf("msg=%s", formatMessage(message)))
	return strings.Join(parts, " ")
}

func formatMessage(message string) string {
	if strings.TrimSpace(message) == "" {
		return `""`
	}
	return strings.ReplaceAll(message, "\n", " ")
}
