package iojson

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file was given and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f flag or pipe input")

// FileInput is a --file flag that falls back to piped stdin.
type FileInput struct {
	Usage string

	path  string
	stdin *os.File
}

// Flag returns the --file/-f flag bound to the input.
func (fi *FileInput) Flag() *cli.StringFlag {
	usage := fi.Usage
	if usage == "" {
		usage = "path to input file (reads from stdin if not provided)"
	}
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       usage,
		Destination: &fi.path,
	}
}

// Open returns the selected input. The caller closes it.
func (fi *FileInput) Open() (io.ReadCloser, error) {
	if fi.path != "" {
		f, err := os.Open(fi.path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	stdin := fi.stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return nil, ErrNoInput
	}
	return io.NopCloser(stdin), nil
}
