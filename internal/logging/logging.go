// Package logging routes the standard logger to a rotating file in debug mode
// and discards it otherwise, so hosts that own the terminal are not disturbed.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	// FileName is the active log file inside the log directory
	FileName = "particlelife.log"
	// MaxSize triggers rotation of an existing log file at startup
	MaxSize = 10 * 1024 * 1024
)

// Setup configures the standard logger. With debug off output is discarded and
// nil is returned; otherwise the caller must close the returned file.
func Setup(debug bool, dir string) (*os.File, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := rotate(path); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("logging started (pid %d)", os.Getpid())
	return f, nil
}

func rotate(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= MaxSize {
		return nil
	}
	stamp := time.Now().Format("20060102-150405")
	rotated := filepath.Join(filepath.Dir(path), fmt.Sprintf("particlelife-%s.log", stamp))
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
