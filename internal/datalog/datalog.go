// Package datalog appends decoded readings to dated log files. It is a
// pure sink: it consumes (kind, value, timestamp) records and knows
// nothing about the device or the decode pipeline.
package datalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/airmon/co2mini/internal/protocol"
)

// filePattern names one day's log file, e.g. "co2mini-2026-08-31.log".
const filePattern = "co2mini-%s.log"

// Logger appends timestamped reading records to a dated file, rolling to
// a new file when the date changes. Records are immutable once written.
type Logger struct {
	dir string

	mu  sync.Mutex
	day string
	f   *os.File
}

// New creates a Logger writing into dir. The directory is created if it
// does not exist; files are opened lazily on the first record.
func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data log directory: %w", err)
	}
	return &Logger{dir: dir}, nil
}

// Record appends one reading. Lines are tab-separated:
// RFC3339 timestamp, reading kind, numeric value.
func (l *Logger) Record(kind protocol.Kind, value float64, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := at.Format("2006-01-02")
	if l.f == nil || day != l.day {
		if err := l.roll(day); err != nil {
			return err
		}
	}

	line := fmt.Sprintf("%s\t%s\t%s\n", at.Format(time.RFC3339), kind, formatValue(kind, value))
	if _, err := l.f.WriteString(line); err != nil {
		return fmt.Errorf("appending reading record: %w", err)
	}
	return nil
}

// Close closes the current log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	l.day = ""
	return err
}

// roll closes the previous day's file and opens the one for day.
func (l *Logger) roll(day string) error {
	if l.f != nil {
		if err := l.f.Close(); err != nil {
			return fmt.Errorf("closing previous log file: %w", err)
		}
		l.f = nil
	}

	path := filepath.Join(l.dir, fmt.Sprintf(filePattern, day))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	l.f = f
	l.day = day
	return nil
}

func formatValue(kind protocol.Kind, value float64) string {
	if kind == protocol.KindCO2 {
		return fmt.Sprintf("%d", int(value))
	}
	return fmt.Sprintf("%.2f", value)
}
