// Package bug reads the fields of a decoded issue-tracker record
//
// A Bug is the JSON object as decoded (map[string]any). Required fields are
// read through typed accessors that fail with ErrMissingField or
// ErrMalformedField; optional fields go through Field, which treats the
// tracker's "---" marker as unset
package bug

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	perr "bugsift/internal/platform/errors"
)

// Unset is the tracker's marker for a field with no assigned value
const Unset = "---"

// Well known keys
const (
	KeyID                 = "id"
	KeySummary            = "summary"
	KeyWhiteboard         = "whiteboard"
	KeyURL                = "url"
	KeyProduct            = "product"
	KeyComponent          = "component"
	KeySeverity           = "severity"
	KeyKeywords           = "keywords"
	KeyAttachments        = "attachments"
	KeyComments           = "comments"
	KeyHasSTR             = "cf_has_str"
	KeyHasRegressionRange = "cf_has_regression_range"
	KeyCrashSignature     = "cf_crash_signature"

	KeyText        = "text"
	KeyIsPatch     = "is_patch"
	KeyContentType = "content_type"
)

var (
	// ErrMissingField is returned when a required key is absent; the key is attached as field
	ErrMissingField = perr.New(perr.ErrorCodeInvalidArgument, "missing required field")

	// ErrMalformedField is returned when a required key holds the wrong type
	ErrMalformedField = perr.New(perr.ErrorCodeInvalidArgument, "malformed field")

	// ErrNoComments is returned by readers that need the opening comment
	ErrNoComments = perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "comments list is empty"), KeyComments)
)

// Bug is one decoded issue-tracker record
type Bug map[string]any

// Comment is one element of the comments list; it aliases the map inside the Bug
type Comment map[string]any

// Attachment is one element of the attachments list
type Attachment map[string]any

// Field returns b[name] when the key is present and its value is not Unset
func Field(b Bug, name string) (any, bool) {
	v, ok := b[name]
	if !ok {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == Unset {
		return nil, false
	}
	return v, true
}

// Raw returns b[name] without the Unset rule
func (b Bug) Raw(name string) (any, bool) {
	v, ok := b[name]
	return v, ok
}

func missing(name string) error   { return perr.WithField(ErrMissingField, name) }
func malformed(name string) error { return perr.WithField(ErrMalformedField, name) }

// String reads a required string field
func (b Bug) String(name string) (string, error) { return str(b, name) }

func str(m map[string]any, name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", missing(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", malformed(name)
	}
	return s, nil
}

// Strings reads a required list of strings
func (b Bug) Strings(name string) ([]string, error) {
	v, ok := b[name]
	if !ok {
		return nil, missing(name)
	}
	switch xs := v.(type) {
	case []string:
		return xs, nil
	case []any:
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			s, ok := x.(string)
			if !ok {
				return nil, malformed(name)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, malformed(name)
}

// Set writes a string field
func (b Bug) Set(name, value string) { b[name] = value }

// ID reads the bug id from a JSON number, json.Number, Go integer or numeric string
func (b Bug) ID() (int64, error) {
	v, ok := b[KeyID]
	if !ok {
		return 0, missing(KeyID)
	}
	id, ok := toInt64(v)
	if !ok {
		return 0, malformed(KeyID)
	}
	return id, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// Comments reads the required comments list; the returned comments share storage with b
func (b Bug) Comments() ([]Comment, error) {
	ms, err := objects(b, KeyComments)
	if err != nil {
		return nil, err
	}
	out := make([]Comment, len(ms))
	for i, m := range ms {
		out[i] = Comment(m)
	}
	return out, nil
}

// Attachments reads the required attachments list
func (b Bug) Attachments() ([]Attachment, error) {
	ms, err := objects(b, KeyAttachments)
	if err != nil {
		return nil, err
	}
	out := make([]Attachment, len(ms))
	for i, m := range ms {
		out[i] = Attachment(m)
	}
	return out, nil
}

func objects(b Bug, name string) ([]map[string]any, error) {
	v, ok := b[name]
	if !ok {
		return nil, missing(name)
	}
	switch xs := v.(type) {
	case []map[string]any:
		return xs, nil
	case []Comment:
		out := make([]map[string]any, len(xs))
		for i, x := range xs {
			out[i] = x
		}
		return out, nil
	case []Attachment:
		out := make([]map[string]any, len(xs))
		for i, x := range xs {
			out[i] = x
		}
		return out, nil
	case []any:
		out := make([]map[string]any, 0, len(xs))
		for _, x := range xs {
			switch m := x.(type) {
			case map[string]any:
				out = append(out, m)
			case Comment:
				out = append(out, m)
			case Attachment:
				out = append(out, m)
			default:
				return nil, malformed(name)
			}
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, malformed(name)
}

// Text reads the comment body
func (c Comment) Text() (string, error) { return str(c, KeyText) }

// SetText rewrites the comment body in place
func (c Comment) SetText(s string) { c[KeyText] = s }

// ContentType reads the attachment MIME type
func (a Attachment) ContentType() (string, error) { return str(a, KeyContentType) }

// IsPatch reads is_patch, which trackers send as a bool or as 0/1
func (a Attachment) IsPatch() (bool, error) {
	v, ok := a[KeyIsPatch]
	if !ok {
		return false, missing(KeyIsPatch)
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if n, ok := toInt64(v); ok {
		return n != 0, nil
	}
	return false, malformed(KeyIsPatch)
}
