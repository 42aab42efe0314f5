package iojson

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// OpenInput opens path for reading, or falls back to stdin when path is
// empty or "-". Reading from an interactive terminal is refused so a
// command does not silently wait for input.
func OpenInput(path string, stdin *os.File) (io.ReadCloser, error) {
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	if term.IsTerminal(int(stdin.Fd())) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); pass a file path or pipe input")
	}
	return io.NopCloser(stdin), nil
}
