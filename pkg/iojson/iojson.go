// Package iojson reads and writes JSON for shell pipelines.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// LineWriter writes one compact JSON document per line.
type LineWriter struct {
	enc *json.Encoder
}

// NewLineWriter returns a LineWriter on w. HTML characters are written as-is.
func NewLineWriter(w io.Writer) *LineWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &LineWriter{enc: enc}
}

// Write encodes obj followed by a newline. Nothing is written when obj
// cannot be marshaled.
func (lw *LineWriter) Write(obj any) error {
	if err := lw.enc.Encode(obj); err != nil {
		return fmt.Errorf("write json line: %w", err)
	}
	return nil
}

// WriteLine writes obj as a single line of compact JSON.
func WriteLine(w io.Writer, obj any) error {
	return NewLineWriter(w).Write(obj)
}
