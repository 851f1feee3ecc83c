// Package catalog loads the designer-authored obstacle kind definitions and
// resolves them into the weighted catalog the sampler consumes.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"pinfield/server/internal/field"
)

type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (f fileSource) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f fileSource) Path() string {
	return f.path
}

// memorySource backs tests with in-memory catalog data.
type memorySource struct {
	name string
	data []byte
}

func (m memorySource) Load() ([]byte, error) {
	return m.data, nil
}

func (m memorySource) Path() string {
	return m.name
}

// DefaultPaths returns the canonical catalog locations relative to the server
// module root. Callers may pass these to Load.
func DefaultPaths() []string {
	candidates := []string{
		filepath.Join("config", "catalog", "kinds.json"),
		filepath.Join("..", "config", "catalog", "kinds.json"),
	}

	paths := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		cleaned := filepath.Clean(candidate)
		if _, duplicate := seen[cleaned]; duplicate {
			continue
		}
		seen[cleaned] = struct{}{}
		paths = append(paths, cleaned)
	}
	return paths
}

// Resolver merges one or more catalog sources into a stable lookup table.
// Call Reload to pick up on-disk changes during development.
type Resolver struct {
	mu      sync.RWMutex
	sources []source
	kinds   map[string]KindDocument
	order   []string
}

// Load constructs a Resolver backed by the provided catalog file paths.
// Missing files are skipped so the default path list can include overlays
// that only exist in some checkouts.
func Load(paths ...string) (*Resolver, error) {
	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		sources = append(sources, fileSource{path: trimmed})
	}
	return newResolver(sources...)
}

func newResolver(sources ...source) (*Resolver, error) {
	r := &Resolver{sources: append([]source(nil), sources...)}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses all catalog sources. Later sources override earlier ones
// to support local overlays during development.
func (r *Resolver) Reload() error {
	if r == nil {
		return nil
	}

	kinds := make(map[string]KindDocument)
	for _, src := range r.sources {
		data, err := src.Load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: failed loading %s: %w", src.Path(), err)
		}
		documents, err := decodeKinds(data)
		if err != nil {
			return fmt.Errorf("catalog: failed parsing %s: %w", src.Path(), err)
		}
		seen := make(map[string]struct{}, len(documents))
		for _, doc := range documents {
			id := strings.TrimSpace(doc.ID)
			if id == "" {
				return fmt.Errorf("catalog: kind missing id in %s", src.Path())
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("catalog: duplicate kind id %q in %s", id, src.Path())
			}
			seen[id] = struct{}{}

			if doc.Weight < 0 {
				return fmt.Errorf("catalog: kind %q has negative weight %g", id, doc.Weight)
			}
			if doc.MaxInstances < 0 {
				return fmt.Errorf("catalog: kind %q has negative maxInstances %d", id, doc.MaxInstances)
			}

			doc.ID = id
			kinds[id] = doc
		}
	}

	order := make([]string, 0, len(kinds))
	for id := range kinds {
		order = append(order, id)
	}
	sort.Strings(order)

	r.mu.Lock()
	r.kinds = kinds
	r.order = order
	r.mu.Unlock()
	return nil
}

// decodeKinds accepts the canonical array format or an object keyed by id.
func decodeKinds(data []byte) ([]KindDocument, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var documents []KindDocument
		if err := json.Unmarshal(data, &documents); err != nil {
			return nil, err
		}
		return documents, nil
	}

	var keyed map[string]KindDocument
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keyed))
	for id := range keyed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	documents := make([]KindDocument, 0, len(keyed))
	for _, id := range ids {
		doc := keyed[id]
		if strings.TrimSpace(doc.ID) == "" {
			doc.ID = id
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

// Lookup returns the document for the given kind id.
func (r *Resolver) Lookup(id string) (KindDocument, bool) {
	if r == nil {
		return KindDocument{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.kinds[id]
	return doc, ok
}

// Documents returns all resolved documents in id order.
func (r *Resolver) Documents() []KindDocument {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	documents := make([]KindDocument, 0, len(r.order))
	for _, id := range r.order {
		documents = append(documents, r.kinds[id])
	}
	return documents
}

// Kinds converts the resolved documents into the sampler's weighted catalog.
func (r *Resolver) Kinds() []field.Kind {
	documents := r.Documents()
	if len(documents) == 0 {
		return nil
	}
	kinds := make([]field.Kind, 0, len(documents))
	for _, doc := range documents {
		kinds = append(kinds, field.Kind{
			ID:           doc.ID,
			Weight:       doc.Weight,
			MaxInstances: doc.MaxInstances,
		})
	}
	return kinds
}

// Len reports the number of resolved kinds.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.kinds)
}
