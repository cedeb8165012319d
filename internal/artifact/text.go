package artifact

import (
	"bufio"
	"fmt"
	"os"
)

// TextFile is a text artifact: a buffered write sink bound to its path, which
// can be read back once closed.
type TextFile struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

func newTextFile(f *os.File) *TextFile {
	return &TextFile{path: f.Name(), f: f, w: bufio.NewWriter(f)}
}

// Path returns the artifact's location.
func (t *TextFile) Path() string {
	return t.path
}

// Write appends p to the artifact.
func (t *TextFile) Write(p []byte) (int, error) {
	if t.w == nil {
		return 0, fmt.Errorf("write %s: %w", t.path, os.ErrClosed)
	}
	return t.w.Write(p)
}

// Close flushes buffered output and closes the file. Closing twice is a
// no-op.
func (t *TextFile) Close() error {
	if t.w == nil {
		return nil
	}
	err := t.w.Flush()
	if cerr := t.f.Close(); err == nil {
		err = cerr
	}
	t.w, t.f = nil, nil
	return err
}

// ReadAll returns the artifact's content as written so far. Buffered output
// that has not been flushed by Close is not included.
func (t *TextFile) ReadAll() (string, error) {
	b, err := os.ReadFile(t.path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
