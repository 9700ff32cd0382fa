package probe

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// ErrNotText is wrapped by ReadError when content is not valid UTF-8.
var ErrNotText = errors.New("not valid UTF-8 text")

// ReadError reports a file that could not be read as text.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Exists reports whether path names a readable regular file. Absence and
// permission errors both report false.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// ReadText returns the content of path. It fails with *ReadError if the
// file cannot be opened or is not valid UTF-8.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &ReadError{Path: path, Err: ErrNotText}
	}
	return string(data), nil
}
