package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const maxLineBytes = 1024 * 1024

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no
// lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = keepLast(append(lines, scanner.Text()), maxLines)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

// keepLast trims lines to its final limit entries, reusing the backing array.
func keepLast(lines []string, limit int) []string {
	if limit <= 0 || len(lines) <= limit {
		return lines
	}
	// Compact once the slack reaches limit so appends stay amortised.
	if cap(lines) >= 2*limit {
		n := copy(lines, lines[len(lines)-limit:])
		return lines[:n]
	}
	return lines[len(lines)-limit:]
}

// Follower keeps the last lines of a growing file and reads only what was
// appended since the previous Poll. A file that shrinks is read again from
// the start. It is safe for concurrent use.
type Follower struct {
	path     string
	maxLines int

	mu      sync.Mutex
	offset  int64
	partial []byte
	lines   []string
}

// NewFollower returns a Follower for path holding at most maxLines lines.
func NewFollower(path string, maxLines int) *Follower {
	return &Follower{path: path, maxLines: maxLines}
}

// Path returns the followed file.
func (f *Follower) Path() string {
	return f.path
}

// Poll reads any new complete lines and returns a copy of the buffer.
// changed reports whether the buffer differs from the previous Poll.
func (f *Follower) Poll() (lines []string, changed bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			changed = f.reset()
			return nil, changed, nil
		}
		return nil, false, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < f.offset {
		changed = f.reset()
	}
	if info.Size() == f.offset {
		return f.snapshot(), changed, nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return nil, false, fmt.Errorf("seek log: %w", err)
	}
	chunk, err := io.ReadAll(io.LimitReader(file, info.Size()-f.offset))
	if err != nil {
		return nil, false, fmt.Errorf("read log: %w", err)
	}
	f.offset += int64(len(chunk))

	data := append(f.partial, chunk...)
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(data[:idx], "\r"))
		f.lines = keepLast(append(f.lines, line), f.maxLines)
		data = data[idx+1:]
		changed = true
	}
	if len(data) > maxLineBytes {
		data = nil
	}
	f.partial = append([]byte(nil), data...)

	return f.snapshot(), changed, nil
}

func (f *Follower) reset() bool {
	had := len(f.lines) > 0
	f.offset = 0
	f.partial = nil
	f.lines = nil
	return had
}

func (f *Follower) snapshot() []string {
	if len(f.lines) == 0 {
		return nil
	}
	return append([]string(nil), f.lines...)
}
