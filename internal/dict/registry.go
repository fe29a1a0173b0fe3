package dict

import "fmt"

// Registry holds the configured dictionaries in display order.
type Registry struct {
	dicts []Dictionary
	byID  map[string]int
}

// NewRegistry creates a registry. Later duplicates of an ID are dropped.
func NewRegistry(dicts []Dictionary) *Registry {
	r := &Registry{byID: make(map[string]int, len(dicts))}
	for _, d := range dicts {
		if d.ID == "" {
			continue
		}
		if _, dup := r.byID[d.ID]; dup {
			continue
		}
		r.byID[d.ID] = len(r.dicts)
		r.dicts = append(r.dicts, d)
	}
	return r
}

// Dictionaries returns a copy of the ordered dictionary list.
func (r *Registry) Dictionaries() []Dictionary {
	out := make([]Dictionary, len(r.dicts))
	copy(out, r.dicts)
	return out
}

// Lookup returns the dictionary with the given ID.
func (r *Registry) Lookup(id string) (Dictionary, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Dictionary{}, false
	}
	return r.dicts[i], true
}

// Contains reports whether the target can be searched.
func (r *Registry) Contains(t Target) bool {
	if t == AllTarget {
		return true
	}
	_, ok := r.byID[string(t)]
	return ok
}

// Len returns the number of dictionaries.
func (r *Registry) Len() int {
	return len(r.dicts)
}

// Resolve returns the dictionary IDs a target covers.
func (r *Registry) Resolve(t Target) ([]string, error) {
	if t == AllTarget {
		ids := make([]string, len(r.dicts))
		for i, d := range r.dicts {
			ids[i] = d.ID
		}
		return ids, nil
	}
	if _, ok := r.byID[string(t)]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDictionary, string(t))
	}
	return []string{string(t)}, nil
}
