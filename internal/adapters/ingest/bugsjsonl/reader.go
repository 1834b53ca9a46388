// Package bugsjsonl streams bug records from JSON Lines dumps
//
// Input is either one bug object per line or Bugzilla REST documents of the
// form {"bugs": [...]}. Gzip input is detected by its magic bytes. Numbers
// decode as json.Number so ids keep full precision. Any malformed record is
// an error; nothing is skipped.
package bugsjsonl

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"bugsift/internal/core/bug"
	perr "bugsift/internal/platform/errors"
	"bugsift/internal/platform/logger"
)

const (
	peekSize      = 512 * 1024
	docKey        = "bugs"
	stdinPathName = "-"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Reader yields bugs one at a time
type Reader struct {
	rc      io.Closer
	gz      *gzip.Reader
	dec     *json.Decoder
	pending []any
	err     error
	records int
	bugs    int
	sampled bool
}

// Open opens path for reading; "-" is stdin
func Open(path string) (*Reader, error) {
	if path == stdinPathName {
		return NewReader(io.NopCloser(os.Stdin))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "bugsjsonl: open %s", path)
	}
	return NewReader(f)
}

// NewReader wraps r, transparently un-gzipping it when needed
func NewReader(r io.ReadCloser) (*Reader, error) {
	br := bufio.NewReaderSize(r, peekSize)
	rd := &Reader{rc: r}

	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		_ = r.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "bugsjsonl: read header")
	}
	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			_ = r.Close()
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "bugsjsonl: gzip header")
		}
		rd.gz = gz
		src = gz
	}

	rd.dec = json.NewDecoder(src)
	rd.dec.UseNumber()
	return rd, nil
}

// Next returns the next bug or io.EOF
func (rd *Reader) Next() (bug.Bug, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	for len(rd.pending) == 0 {
		if err := rd.fill(); err != nil {
			rd.err = err
			return nil, err
		}
	}
	raw := rd.pending[0]
	rd.pending = rd.pending[1:]

	m, ok := raw.(map[string]any)
	if !ok {
		rd.err = perr.Newf(perr.ErrorCodeInvalidArgument, "bugsjsonl: record %d: bug is not an object", rd.records)
		return nil, rd.err
	}
	rd.bugs++
	return bug.Bug(m), nil
}

func (rd *Reader) fill() error {
	start := rd.dec.InputOffset()
	var v any
	if err := rd.dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return perr.Wrapf(err, perr.ErrorCodeJSON, "bugsjsonl: record %d at offset %d", rd.records+1, start)
	}
	rd.records++

	obj, ok := v.(map[string]any)
	if !ok {
		return perr.Newf(perr.ErrorCodeInvalidArgument, "bugsjsonl: record %d is not an object", rd.records)
	}
	if list, isDoc := document(obj); isDoc {
		rd.first(len(list), rd.dec.InputOffset()-start)
		rd.pending = list
		return nil
	}
	rd.first(1, rd.dec.InputOffset()-start)
	rd.pending = []any{obj}
	return nil
}

// document reports a REST style {"bugs": [...]} wrapper
func document(obj map[string]any) ([]any, bool) {
	if _, hasID := obj[bug.KeyID]; hasID {
		return nil, false
	}
	list, ok := obj[docKey].([]any)
	return list, ok
}

func (rd *Reader) first(bugs int, size int64) {
	if rd.sampled {
		return
	}
	rd.sampled = true
	l := logger.Named("bugsjsonl")
	l.Debug().
		Int("bugs", bugs).
		Int64("record_bytes", size).
		Bool("gzip", rd.gz != nil).
		Msg("bugsjsonl: first record")
}

// ReadPage returns up to n bugs; io.EOF only when no bug was read
func (rd *Reader) ReadPage(_ context.Context, n int) ([]bug.Bug, error) {
	if n <= 0 {
		n = 1
	}
	page := make([]bug.Bug, 0, n)
	for len(page) < n {
		b, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		page = append(page, b)
	}
	if len(page) == 0 {
		return nil, io.EOF
	}
	return page, nil
}

// ReadAll drains the reader
func (rd *Reader) ReadAll() ([]bug.Bug, error) {
	var out []bug.Bug
	for {
		b, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
}

// Stats returns records decoded and bugs yielded so far
func (rd *Reader) Stats() (records, bugs int) { return rd.records, rd.bugs }

// Close releases the gzip stream and the source
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil {
			first = err
		}
	}
	if rd.rc != nil {
		if err := rd.rc.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
