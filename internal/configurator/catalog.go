// Package configurator holds the catalog types, the price calculator and the
// compatibility rules for a custom car. It performs no I/O: the catalog is passed
// in explicitly and every function returns the same output for the same input.
package configurator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Required feature names. A selection is complete when all of them are chosen.
const (
	Exterior = "exterior"
	Wheels   = "wheels"
	Interior = "interior"
	Engine   = "engine"
)

// RequiredFeatures lists the features every car needs, in validation order.
var RequiredFeatures = []string{Exterior, Wheels, Interior, Engine}

var (
	ErrEmptyFeature     = errors.New("feature has no options")
	ErrDuplicateFeature = errors.New("duplicate feature")
)

type Option struct {
	ID          int64
	Name        string
	DisplayName string
	Price       decimal.Decimal
	ImageURL    string
}

type Feature struct {
	ID          int64
	Name        string
	DisplayName string
	Options     []Option
}

// Catalog is the read-only set of features and their options.
// Options inside a feature are ordered by ascending price.
type Catalog struct {
	features []Feature
	byName   map[string]int
}

// NewCatalog copies features into an immutable catalog. A feature without
// options or a repeated feature name is a setup defect and is reported as an error.
func NewCatalog(features []Feature) (*Catalog, error) {
	c := &Catalog{
		features: make([]Feature, 0, len(features)),
		byName:   make(map[string]int, len(features)),
	}
	for _, f := range features {
		if len(f.Options) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFeature, f.Name)
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFeature, f.Name)
		}
		opts := make([]Option, len(f.Options))
		copy(opts, f.Options)
		sort.SliceStable(opts, func(i, j int) bool {
			if cmp := opts[i].Price.Cmp(opts[j].Price); cmp != 0 {
				return cmp < 0
			}
			return opts[i].ID < opts[j].ID
		})
		f.Options = opts
		c.byName[f.Name] = len(c.features)
		c.features = append(c.features, f)
	}
	return c, nil
}

// Features returns a copy of the catalog's features in load order.
func (c *Catalog) Features() []Feature {
	if c == nil {
		return nil
	}
	out := make([]Feature, len(c.features))
	for i, f := range c.features {
		f.Options = append([]Option(nil), f.Options...)
		out[i] = f
	}
	return out
}

// Feature looks a feature up by machine name.
func (c *Catalog) Feature(name string) (Feature, bool) {
	if c == nil {
		return Feature{}, false
	}
	i, ok := c.byName[name]
	if !ok {
		return Feature{}, false
	}
	f := c.features[i]
	f.Options = append([]Option(nil), f.Options...)
	return f, true
}

// Option resolves an option id within the named feature.
func (c *Catalog) Option(feature string, id int64) (Option, bool) {
	if c == nil {
		return Option{}, false
	}
	i, ok := c.byName[feature]
	if !ok {
		return Option{}, false
	}
	for _, o := range c.features[i].Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
