// Package commitsfile serves commit messages from a JSON file keyed by bug id
package commitsfile

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	perr "bugsift/internal/platform/errors"
)

// Static is an in-memory bug id to commit message lookup
type Static map[int64]string

// Messages returns the known messages for ids; unknown ids are left out
func (s Static) Messages(_ context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if m, ok := s[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

// Parse decodes {"<bug id>": "<message>", ...}
func Parse(data []byte) (Static, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "commitsfile: decode")
	}
	out := make(Static, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("commitsfile: bug id %q is not an integer", k), k)
		}
		out[id] = v
	}
	return out, nil
}

// Load reads and parses path
func Load(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "commitsfile: read %s", path)
	}
	return Parse(data)
}
