// Package watch follows a growing dump file and normalizes newly appended
// lines as they arrive.
//
// It implements "tail -f" style following with rotation detection, feeding
// each complete new line through the normalization pipeline and emitting
// records for extractable credentials.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bimmerbailey/credsift/internal/pipeline"
	"github.com/fsnotify/fsnotify"
)

// Options configures the watcher behavior.
type Options struct {
	FilePath     string            // Path to the dump file
	FromStart    bool              // Process existing content before following
	FollowRotate bool              // Keep following through file rotation
	EmitFunc     pipeline.EmitFunc // Called for each normalized record
}

// Watcher follows a dump file and streams normalized records.
type Watcher struct {
	opts       Options
	normalizer *pipeline.Normalizer
	file       *os.File
	offset     int64
	lineNum    int
	watcher    *fsnotify.Watcher
}

// New creates a Watcher that normalizes appended lines with n.
func New(opts Options, n *pipeline.Normalizer) *Watcher {
	return &Watcher{opts: opts, normalizer: n}
}

// Run starts following the file. It blocks until the context is cancelled
// or an error occurs.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.openFile(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer w.close()

	if w.opts.FromStart {
		if err := w.readNewContent(); err != nil {
			return fmt.Errorf("failed to read existing content: %w", err)
		}
	}

	if err := w.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer w.watcher.Close()

	return w.watch(ctx)
}

// openFile opens the dump file, positioned at the end unless existing
// content was requested.
func (w *Watcher) openFile() error {
	f, err := os.Open(w.opts.FilePath)
	if err != nil {
		return err
	}
	w.file = f

	if !w.opts.FromStart {
		stat, err := f.Stat()
		if err != nil {
			return err
		}
		w.offset = stat.Size()
	}

	return nil
}

// setupWatcher initializes the fsnotify watcher.
func (w *Watcher) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(w.opts.FilePath); err != nil {
		return err
	}

	return nil
}

// watch monitors the file for changes and normalizes new lines.
func (w *Watcher) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}

			if err := w.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// handleEvent processes a file system event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return w.readNewContent()

	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		return w.handleRotation(ctx)
	}

	return nil
}

// readNewContent normalizes content appended since the last offset.
func (w *Watcher) readNewContent() error {
	if _, err := w.file.Seek(w.offset, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(w.file)
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		w.lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, _ := w.normalizer.NormalizeLine(line, w.lineNum)
		if entry == nil {
			continue
		}

		if err := w.opts.EmitFunc(*entry); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	var err error
	w.offset, err = w.file.Seek(0, io.SeekCurrent)
	return err
}

// handleRotation handles dump file rotation.
func (w *Watcher) handleRotation(ctx context.Context) error {
	if !w.opts.FollowRotate {
		fmt.Fprintf(os.Stderr, "\nFile rotated. Exiting. Use --follow-rotate to follow through rotations.\n")
		return fmt.Errorf("file rotated")
	}

	if w.file != nil {
		w.file.Close()
		w.file = nil
	}

	// Wait for the new file to appear, with a timeout.
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			f, err := os.Open(w.opts.FilePath)
			if err == nil {
				w.file = f
				w.offset = 0
				w.lineNum = 0

				if err := w.watcher.Add(w.opts.FilePath); err != nil {
					return fmt.Errorf("failed to watch rotated file: %w", err)
				}

				fmt.Fprintf(os.Stderr, "\n==> File rotated, following new file <==\n")
				return nil
			}
		}
	}
}

// close closes all resources.
func (w *Watcher) close() {
	if w.file != nil {
		w.file.Close()
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
}
