// Package catalog loads resource node definitions from YAML.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"worldharvest/internal/domain/resourcenode"

	"gopkg.in/yaml.v3"
)

//go:embed definitions.yaml
var defaultCatalog []byte

var ErrDuplicateTag = errors.New("duplicate resource tag")

type File struct {
	Version     int                       `yaml:"version"`
	Definitions []resourcenode.Definition `yaml:"definitions"`
}

// Default returns the catalog compiled into the binary.
func Default() ([]resourcenode.Definition, error) {
	return Parse(defaultCatalog)
}

// Load reads path, or the built-in catalog when path is empty.
func Load(path string) ([]resourcenode.Definition, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	defs, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes and validates a catalog. Unknown keys are rejected so typos
// do not silently drop a tool requirement.
func Parse(raw []byte) ([]resourcenode.Definition, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Definitions))
	var errs []error
	for i, def := range f.Definitions {
		if err := def.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("definitions[%d]: %w", i, err))
			continue
		}
		if len(def.Outputs) == 0 {
			errs = append(errs, fmt.Errorf("definitions[%d] %s: %w: outputs are required", i, def.ResourceTag, resourcenode.ErrInvalidDefinition))
			continue
		}
		if _, dup := seen[def.ResourceTag]; dup {
			errs = append(errs, fmt.Errorf("definitions[%d] %s: %w", i, def.ResourceTag, ErrDuplicateTag))
			continue
		}
		seen[def.ResourceTag] = struct{}{}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return f.Definitions, nil
}
