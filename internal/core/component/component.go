// Package component derives product::component training labels from bugs
package component

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"bugsift/internal/core/bug"
	perr "bugsift/internal/platform/errors"
)

//go:embed components.json
var embedded []byte

// Sep joins product and component
const Sep = "::"

type rawCatalog struct {
	Version    int               `json:"version"`
	Products   []string          `json:"products"`
	Conflated  []string          `json:"conflated"`
	Mapping    map[string]string `json:"mapping"`
	Meaningful []string          `json:"meaningful"`
}

// Catalog holds the component lists; it is read-only after Load
type Catalog struct {
	products   map[string]struct{}
	conflated  []string
	mapping    map[string]string
	meaningful map[string]struct{}
}

// Load parses a catalog document
func Load(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "component catalog")
	}
	if raw.Version != 1 {
		return nil, perr.InvalidArgf("component catalog version %d not supported", raw.Version)
	}
	c := &Catalog{
		products:   set(raw.Products),
		conflated:  raw.Conflated,
		mapping:    raw.Mapping,
		meaningful: set(raw.Meaningful),
	}
	for from := range c.mapping {
		if !c.isConflated(from) {
			return nil, perr.WithField(perr.InvalidArgf("mapping source %q is not a conflated component", from), "mapping")
		}
	}
	return c, nil
}

func set(xs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		m[x] = struct{}{}
	}
	return m
}

func (c *Catalog) isConflated(name string) bool {
	for _, p := range c.conflated {
		if p == name {
			return true
		}
	}
	return false
}

var (
	defOnce sync.Once
	def     *Catalog
)

// Default returns the embedded catalog
func Default() *Catalog {
	defOnce.Do(func() {
		var err error
		if def, err = Load(embedded); err != nil {
			panic(fmt.Sprintf("component: embedded catalog: %v", err))
		}
	})
	return def
}

// Tracked reports whether product is one of the catalog products
func (c *Catalog) Tracked(product string) bool {
	_, ok := c.products[product]
	return ok
}

// Filter returns the label for a product and component, or false when the pair is not used for training
func (c *Catalog) Filter(product, component string) (string, bool) {
	full := product + Sep + component
	if _, ok := c.meaningful[full]; ok {
		return full, true
	}
	for _, p := range c.conflated {
		if strings.HasPrefix(full, p) {
			return p, true
		}
	}
	return "", false
}

// Canonical maps a conflated label onto the real component it stands for
func (c *Catalog) Canonical(label string) string {
	if to, ok := c.mapping[label]; ok {
		return to
	}
	return label
}

// Count is one label with its bug count
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Labeling is the outcome of Labels
type Labeling struct {
	ByBug     map[int64]string `json:"by_bug"`
	Counts    []Count          `json:"counts"`
	Skipped   int              `json:"skipped"`
	Untracked int              `json:"untracked"`
}

// Labels assigns a label to every bug that has one; canonical applies Canonical to each label
func (c *Catalog) Labels(bugs []bug.Bug, canonical bool) (Labeling, error) {
	out := Labeling{ByBug: make(map[int64]string, len(bugs))}
	counts := map[string]int{}
	for i, b := range bugs {
		id, err := b.ID()
		if err != nil {
			return Labeling{}, perr.Keep(err, fmt.Sprintf("bug at index %d", i))
		}
		product, err := b.String(bug.KeyProduct)
		if err != nil {
			return Labeling{}, perr.Keep(err, fmt.Sprintf("bug %d at index %d", id, i))
		}
		comp, err := b.String(bug.KeyComponent)
		if err != nil {
			return Labeling{}, perr.Keep(err, fmt.Sprintf("bug %d at index %d", id, i))
		}
		if !c.Tracked(product) {
			out.Untracked++
		}
		label, ok := c.Filter(product, comp)
		if !ok {
			out.Skipped++
			continue
		}
		if canonical {
			label = c.Canonical(label)
		}
		out.ByBug[id] = label
		counts[label]++
	}

	out.Counts = make([]Count, 0, len(counts))
	for l, n := range counts {
		out.Counts = append(out.Counts, Count{Label: l, Count: n})
	}
	sort.Slice(out.Counts, func(i, j int) bool {
		if out.Counts[i].Count != out.Counts[j].Count {
			return out.Counts[i].Count > out.Counts[j].Count
		}
		return out.Counts[i].Label < out.Counts[j].Label
	})
	return out, nil
}

// Filter uses the embedded catalog
func Filter(product, component string) (string, bool) { return Default().Filter(product, component) }

// Canonical uses the embedded catalog
func Canonical(label string) string { return Default().Canonical(label) }

// Labels uses the embedded catalog
func Labels(bugs []bug.Bug, canonical bool) (Labeling, error) {
	return Default().Labels(bugs, canonical)
}
