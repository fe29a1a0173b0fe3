package dict

import (
	"context"
	"fmt"
)

// Service answers searches by resolving targets through a registry.
type Service struct {
	registry *Registry
	store    *Store
	importer *Importer
	limit    int
}

// NewService creates a search service. A limit ≤ 0 uses DefaultLimit.
func NewService(registry *Registry, store *Store, limit int) *Service {
	return &Service{
		registry: registry,
		store:    store,
		importer: NewImporter(store, nil),
		limit:    limit,
	}
}

// SetImporter replaces the importer used by Import.
func (s *Service) SetImporter(imp *Importer) {
	s.importer = imp
}

// Search runs text against the dictionaries the target covers.
func (s *Service) Search(ctx context.Context, target Target, text string) ([]Result, error) {
	ids, err := s.registry.Resolve(target)
	if err != nil {
		return nil, err
	}

	results, err := s.store.Search(ctx, Query{DictIDs: ids, Text: text, Limit: s.limit})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", string(target), err)
	}
	return results, nil
}

// Import loads a JSONL file into the registered dictionary dictID.
func (s *Service) Import(ctx context.Context, dictID, path string, replace bool) (ImportStats, error) {
	d, ok := s.registry.Lookup(dictID)
	if !ok {
		return ImportStats{}, fmt.Errorf("%w: %s", ErrUnknownDictionary, dictID)
	}
	return s.importer.ImportFile(ctx, d, path, replace)
}

// Counts returns entry counts per dictionary ID.
func (s *Service) Counts(ctx context.Context) (map[string]int, error) {
	return s.store.Counts(ctx)
}

// Dictionaries returns the registered dictionaries in order.
func (s *Service) Dictionaries() []Dictionary {
	return s.registry.Dictionaries()
}
