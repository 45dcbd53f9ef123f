// Package catalog holds the static registry of tracked vehicle models and the
// listing filters that select each one.
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/corsa-lab/corsa-api/internal/core/storage"
)

// ModelDefinition is a registered make/label pairing with its listing filters.
type ModelDefinition struct {
	Key     string                 `json:"key"`
	Make    string                 `json:"make"`
	Label   string                 `json:"label"`
	Aliases []string               `json:"aliases,omitempty"`
	Filters []storage.FilterClause `json:"filters"`
}

// Query returns a listings query for the definition's filters.
func (d ModelDefinition) Query() storage.Query {
	return storage.NewQuery(d.Filters...)
}

func (d ModelDefinition) clone() ModelDefinition {
	out := d
	out.Filters = append([]storage.FilterClause(nil), d.Filters...)
	if d.Aliases != nil {
		out.Aliases = append([]string(nil), d.Aliases...)
	}
	return out
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases value, collapses every run of non-alphanumerics into a
// single hyphen and trims hyphens from both ends.
func Slugify(value string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(value), "-"), "-")
}

// Define builds a definition keyed by Slugify(manufacturer + "-" + label). The
// model filter uses pattern, or label + "%" when pattern is empty.
func Define(manufacturer, label, pattern string) ModelDefinition {
	if pattern == "" {
		pattern = label + "%"
	}
	return ModelDefinition{
		Key:   Slugify(manufacturer + "-" + label),
		Make:  manufacturer,
		Label: label,
		Filters: []storage.FilterClause{
			storage.Equals(storage.ColumnMake, manufacturer),
			storage.ILike(storage.ColumnModel, pattern),
		},
	}
}

// Registry is an ordered, read-only set of model definitions.
type Registry struct {
	models      []ModelDefinition
	byKey       map[string]int
	fingerprint string
}

// NewRegistry indexes defs in order. Keys must be non-empty and unique, and
// every filter must be translatable by the data source.
func NewRegistry(defs []ModelDefinition) (*Registry, error) {
	r := &Registry{
		models: make([]ModelDefinition, 0, len(defs)),
		byKey:  make(map[string]int, len(defs)),
	}

	for _, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("model %q %q: empty key", def.Make, def.Label)
		}
		if _, exists := r.byKey[def.Key]; exists {
			return nil, fmt.Errorf("model %q: duplicate key", def.Key)
		}
		if len(def.Filters) == 0 {
			return nil, fmt.Errorf("model %q: no filters", def.Key)
		}
		for _, f := range def.Filters {
			if err := f.Validate(); err != nil {
				return nil, fmt.Errorf("model %q: %w", def.Key, err)
			}
		}

		r.byKey[def.Key] = len(r.models)
		r.models = append(r.models, def.clone())
	}
	return r, nil
}

// All returns every definition in registration order.
func (r *Registry) All() []ModelDefinition {
	out := make([]ModelDefinition, len(r.models))
	for i, m := range r.models {
		out[i] = m.clone()
	}
	return out
}

// Lookup returns the definition registered under key.
func (r *Registry) Lookup(key string) (ModelDefinition, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return ModelDefinition{}, false
	}
	return r.models[i].clone(), true
}

// Len returns the number of registered models.
func (r *Registry) Len() int { return len(r.models) }

// Fingerprint is the SHA-256 of the catalog source, when loaded from YAML.
func (r *Registry) Fingerprint() string { return r.fingerprint }
