package preset

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu         sync.RWMutex
	variations map[string]Variation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{variations: make(map[string]Variation)}
}

func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) SaveVariation(_ context.Context, v Variation) error {
	if err := validateVariation(v); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.variations[v.Name] = copyVariation(v)
	return nil
}

func (s *MemoryStore) GetVariation(_ context.Context, name string) (Variation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.variations[name]
	if !ok {
		return Variation{}, false, nil
	}
	return copyVariation(v), true, nil
}

func (s *MemoryStore) ListVariations(_ context.Context) ([]Variation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Variation, 0, len(s.variations))
	for _, v := range s.variations {
		out = append(out, copyVariation(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) DeleteVariation(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.variations, name)
	return nil
}

func copyVariation(v Variation) Variation {
	params := make(map[string]float64, len(v.Parameters))
	for id, value := range v.Parameters {
		params[id] = value
	}
	v.Parameters = params
	return v
}
