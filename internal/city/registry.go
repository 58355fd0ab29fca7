package city

import "sync"

// Registry is the application's list of looked up cities. Each city appears once,
// in the order it was first recorded.
type Registry struct {
	mu     sync.RWMutex
	cities []City
	index  map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Upsert records c, replacing an earlier record for the same city in place.
func (r *Registry) Upsert(c City) {
	key := NormalizeName(c.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[key]; ok {
		r.cities[i] = c
		return
	}

	r.index[key] = len(r.cities)
	r.cities = append(r.cities, c)
}

func (r *Registry) Get(name string) (City, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[NormalizeName(name)]
	if !ok {
		return City{}, false
	}
	return r.cities[i], true
}

// List returns a copy of the recorded cities.
func (r *Registry) List() []City {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]City, len(r.cities))
	copy(out, r.cities)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.cities)
}
