package estimator

import "fmt"

// Registry maps method names to constructed estimator instances. The method
// set is closed and small, so the table is built once at construction; adding
// a method means implementing Estimator and appending one entry here.
type Registry struct {
	order   []string
	methods map[string]Estimator
}

// NewRegistry builds the registry with every known method sharing the given
// physiological constants (nil uses defaults).
func NewRegistry(cfg *Config) *Registry {
	merged := NewConfig(cfg)
	entries := []Estimator{
		NewHRVTimeDomain(merged),
		NewSpectralAnalysis(merged),
		NewStatisticalBaseline(merged),
	}

	r := &Registry{methods: make(map[string]Estimator, len(entries))}
	for _, e := range entries {
		r.order = append(r.order, e.Name())
		r.methods[e.Name()] = e
	}
	return r
}

// Methods returns the registered names in their fixed registration order.
func (r *Registry) Methods() []string {
	return append([]string(nil), r.order...)
}

// Get returns the estimator registered under name, or ErrUnknownMethod.
func (r *Registry) Get(name string) (Estimator, error) {
	e, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownMethod, name, r.order)
	}
	return e, nil
}
