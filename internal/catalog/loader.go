package catalog

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/corsa-lab/corsa-api/internal/core/storage"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// rawModel is the on-disk YAML shape of one entry. Filters, when present,
// replace the derived make/pattern pair.
type rawModel struct {
	Make    string                 `yaml:"make"`
	Label   string                 `yaml:"label"`
	Pattern string                 `yaml:"pattern"`
	Aliases []string               `yaml:"aliases"`
	Filters []storage.FilterClause `yaml:"filters"`
}

type rawCatalog struct {
	Models []rawModel `yaml:"models"`
}

// Default returns the registry built from the embedded catalog.
func Default() (*Registry, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the embedded catalog when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		reg, err := Default()
		if err != nil {
			return nil, err
		}
		slog.Info("[Catalog] Loaded embedded model catalog", "models", reg.Len(), "fingerprint", reg.Fingerprint()[:12])
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model catalog %s: %w", path, err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("model catalog %s: %w", path, err)
	}

	slog.Info("[Catalog] Loaded model catalog", "path", path, "models", reg.Len(), "fingerprint", reg.Fingerprint()[:12])
	return reg, nil
}

// Parse builds a registry from catalog YAML.
func Parse(data []byte) (*Registry, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing model catalog: %w", err)
	}

	defs := make([]ModelDefinition, 0, len(raw.Models))
	for i, m := range raw.Models {
		if m.Make == "" || m.Label == "" {
			return nil, fmt.Errorf("model #%d: make and label are required", i+1)
		}

		def := Define(m.Make, m.Label, m.Pattern)
		def.Aliases = m.Aliases
		if len(m.Filters) > 0 {
			def.Filters = m.Filters
		}
		defs = append(defs, def)
	}

	reg, err := NewRegistry(defs)
	if err != nil {
		return nil, err
	}
	reg.fingerprint = fmt.Sprintf("%x", sha256.Sum256(data))
	return reg, nil
}
