package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a T from the file named by its flag, or from piped stdin
// when the flag is unset.
type FileReader[T any] struct {
	path  string
	stdin io.Reader
}

// Flag returns the --input/-i flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "input",
		Aliases:     []string{"i"},
		Usage:       "read JSON from `FILE` (use - for stdin)",
		Destination: &fr.path,
	}
}

// Set reports whether an input source was given.
func (fr *FileReader[T]) Set() bool {
	return fr.path != ""
}

// Read decodes the input. Reading from stdin fails when stdin is a terminal.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var r io.Reader
	switch fr.path {
	case "", "-":
		if fr.stdin != nil {
			r = fr.stdin
			break
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); pass a file or pipe JSON")
		}
		r = os.Stdin
	default:
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}
