package fstruct

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CatalogEntry is the interchange form of one Descriptor.
type CatalogEntry struct {
	Type   string `yaml:"type"`
	Size   int    `yaml:"size"`
	Schema string `yaml:"schema"`
}

// Catalog lists structure descriptions, for shipping schemas to peers that
// have no Go type for them.
type Catalog struct {
	Structs []CatalogEntry `yaml:"structs"`
}

// Catalog evaluates the schema of every registered descriptor.
func (r *Registry) Catalog() Catalog {
	all := r.All()
	c := Catalog{Structs: make([]CatalogEntry, 0, len(all))}
	for _, d := range all {
		c.Structs = append(c.Structs, CatalogEntry{Type: d.typeName, Size: d.size, Schema: d.Schema()})
	}
	return c
}

// MarshalCatalog encodes r's catalog as YAML.
func (r *Registry) MarshalCatalog() ([]byte, error) {
	return yaml.Marshal(r.Catalog())
}

// LoadCatalog registers the structures described by a YAML catalog. Entries
// may appear in any order; an entry is registered once every structure it
// refers to is known. Entries that never resolve are reported together and
// left unregistered. The returned descriptors are the live ones, in
// registration order.
func (r *Registry) LoadCatalog(data []byte) ([]*Descriptor, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	pending := make([]*Descriptor, 0, len(c.Structs))
	for i, e := range c.Structs {
		if e.Type == "" {
			return nil, fmt.Errorf("%w: catalog entry %d has no type name", ErrMalformedSchema, i)
		}
		pending = append(pending, NewDescriptor(e.Type, e.Size, StaticSchema(e.Schema)))
	}

	var loaded []*Descriptor
	for len(pending) > 0 {
		var (
			retry []*Descriptor
			errs  []error
		)
		for _, d := range pending {
			if live, ok := r.Lookup(d.typeName); ok {
				loaded = append(loaded, live)
				continue
			}
			if _, err := r.resolveUncached(d); err != nil {
				retry = append(retry, d)
				errs = append(errs, err)
				continue
			}
			loaded = append(loaded, r.Register(d))
		}
		if len(retry) == len(pending) {
			r.logger().Warn("catalog entries rejected", zap.Int("rejected", len(retry)), zap.Error(errors.Join(errs...)))
			return loaded, errors.Join(errs...)
		}
		pending = retry
	}
	r.logger().Debug("catalog loaded", zap.Int("structs", len(loaded)))
	return loaded, nil
}
