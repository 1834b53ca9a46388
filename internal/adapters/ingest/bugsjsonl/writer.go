package bugsjsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"bugsift/internal/core/features"
	perr "bugsift/internal/platform/errors"
)

// Writer emits results as JSON Lines
type Writer struct {
	bw  *bufio.Writer
	enc *json.Encoder
	n   int
}

// NewWriter wraps w; call Flush when done
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &Writer{bw: bw, enc: enc}
}

// Emit writes one line per result, in order
func (w *Writer) Emit(_ context.Context, results []features.Result) error {
	for _, r := range results {
		if err := w.enc.Encode(r); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "bugsjsonl: encode result %d", w.n)
		}
		w.n++
	}
	return nil
}

// Count returns the number of results written
func (w *Writer) Count() int { return w.n }

// Flush writes buffered output
func (w *Writer) Flush() error {
	return perr.WrapIf(w.bw.Flush(), perr.ErrorCodeUnavailable, "bugsjsonl: flush")
}
