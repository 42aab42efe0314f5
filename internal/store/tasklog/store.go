// Package tasklog persists tasks as an append-only JSON Lines log. Every line
// holds the full state of one task; the last line for an ID wins.
package tasklog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/colonyops/ticketlog/internal/core/task"
)

// ErrUnreadableLines is returned by Compact when the log contains lines that
// cannot be decoded and CompactOptions.DropInvalid is not set.
var ErrUnreadableLines = errors.New("log contains unreadable lines")

// StorageWriteError reports a failed write. The log is left as it was
// before the write started.
type StorageWriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// Option configures a Store.
type Option func(*Store)

// WithStrict makes Load fail on the first undecodable line instead of
// skipping it.
func WithStrict(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// Store reads and writes a single log file. It is not safe for concurrent
// use by multiple processes.
type Store struct {
	path   string
	strict bool
}

// New creates a store for the log at path. The file is created on first
// append.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes the full state of t as a new line at the end of the log and
// syncs it to disk.
func (s *Store) Append(ctx context.Context, t task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := Encode(t)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &StorageWriteError{Path: s.path, Op: "append", Err: err}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return &StorageWriteError{Path: s.path, Op: "append", Err: err}
	}
	defer func() { _ = f.Close() }()

	size, torn, err := tail(f)
	if err != nil {
		return &StorageWriteError{Path: s.path, Op: "append", Err: err}
	}

	buf := make([]byte, 0, len(line)+2)
	if torn {
		buf = append(buf, '\n')
	}
	buf = append(buf, line...)
	buf = append(buf, '\n')

	if _, err := f.Seek(size, io.SeekStart); err != nil {
		return &StorageWriteError{Path: s.path, Op: "append", Err: err}
	}

	_, err = f.Write(buf)
	if err == nil {
		err = f.Sync()
	}
	if err != nil {
		// Drop the partial line so the log never gains a torn entry.
		if truncErr := f.Truncate(size); truncErr != nil {
			err = errors.Join(err, fmt.Errorf("truncate: %w", truncErr))
		}
		return &StorageWriteError{Path: s.path, Op: "append", Err: err}
	}

	return nil
}

// tail returns the file size and whether the last byte is something other
// than a newline.
func tail(f *os.File) (int64, bool, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, false, err
	}

	size := info.Size()
	if size == 0 {
		return 0, false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return 0, false, err
	}
	return size, last[0] != '\n', nil
}

// Load reads the whole log and folds it into the current state of every
// task. A missing file is an empty snapshot.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := newSnapshot()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReader(f)
	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, readErr := r.ReadBytes('\n')
		if len(raw) > 0 {
			lineNo++
			if err := s.fold(snap, lineNo, raw); err != nil {
				return nil, err
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read log: %w", readErr)
		}
	}

	return snap, nil
}

func (s *Store) fold(snap *Snapshot, lineNo int, raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	snap.Lines++

	t, err := Decode(lineNo, raw)
	if err != nil {
		var decodeErr *DecodeError
		if s.strict || !errors.As(err, &decodeErr) {
			return err
		}
		snap.Skipped = append(snap.Skipped, decodeErr)
		return nil
	}

	snap.put(t)
	return nil
}

// CompactOptions controls Compact.
type CompactOptions struct {
	// DropInvalid discards undecodable lines instead of refusing to compact.
	DropInvalid bool
}

// CompactResult summarizes a compaction.
type CompactResult struct {
	OriginalLines int `json:"original_lines"`
	NewLines      int `json:"new_lines"`
	Removed       int `json:"removed"`
	Dropped       int `json:"dropped_invalid"`
}

// Compact rewrites the log with exactly one line per task, ordered by ID.
// The new content is written to a temporary file in the same directory,
// synced, then renamed over the log. Compacting a compacted log produces
// byte-identical output.
func (s *Store) Compact(ctx context.Context, opts CompactOptions) (CompactResult, error) {
	// Always read leniently so unreadable lines can be counted.
	snap, err := (&Store{path: s.path}).Load(ctx)
	if err != nil {
		return CompactResult{}, err
	}

	if len(snap.Skipped) > 0 && !opts.DropInvalid {
		return CompactResult{}, fmt.Errorf("%w: %d line(s), first at line %d", ErrUnreadableLines, len(snap.Skipped), snap.Skipped[0].Line)
	}

	result := CompactResult{
		OriginalLines: snap.Lines,
		NewLines:      snap.Len(),
		Dropped:       len(snap.Skipped),
	}
	result.Removed = result.OriginalLines - result.NewLines

	if snap.Lines == 0 {
		return result, nil
	}

	var buf bytes.Buffer
	for _, t := range snap.Sorted() {
		line, err := Encode(t)
		if err != nil {
			return CompactResult{}, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := ctx.Err(); err != nil {
		return CompactResult{}, err
	}

	if err := s.replace(buf.Bytes()); err != nil {
		return CompactResult{}, err
	}
	return result, nil
}

// replace atomically swaps the log content for data.
func (s *Store) replace(data []byte) error {
	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".ticketlog_tmp_*.jsonl")
	if err != nil {
		return &StorageWriteError{Path: s.path, Op: "compact", Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &StorageWriteError{Path: s.path, Op: "compact", Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if info, err := os.Stat(s.path); err == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			return fail(err)
		}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &StorageWriteError{Path: s.path, Op: "compact", Err: err}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return &StorageWriteError{Path: s.path, Op: "compact", Err: err}
	}

	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry after a rename. Not every platform
// supports syncing a directory, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
