package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when input would come from an interactive terminal.
var ErrNoInput = errors.New("no input: pass --file or pipe JSON on stdin")

// FileReader decodes a JSON value from the --file flag or from stdin.
// A file of "-" also means stdin.
type FileReader[T any] struct {
	path string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (- or unset reads stdin)",
		TakesFile:   true,
		Destination: &fr.path,
	}
}

// Read decodes one JSON value. stdin is refused when it is a terminal.
func (fr *FileReader[T]) Read(stdin io.Reader) (T, error) {
	var out T

	src := stdin
	if fr.path != "" && fr.path != "-" {
		f, err := os.Open(fr.path)
		if err != nil {
			return out, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		src = f
	} else if isTerminal(stdin) {
		return out, ErrNoInput
	}

	if err := json.NewDecoder(src).Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
