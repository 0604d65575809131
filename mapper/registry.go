package mapper

import "fmt"

// Registry holds all known models keyed by storage name.
type Registry struct {
	models    []*Model
	byStorage map[string]*Model
}

// NewRegistry creates a new empty Registry.
func NewRegistry(models ...*Model) *Registry {
	r := &Registry{byStorage: make(map[string]*Model)}
	for _, m := range models {
		r.MustRegister(m)
	}
	return r
}

// Register adds a model to the registry.
// Two models may not share a storage name, since the storage name is the
// only thing distinguishing their items in a shared domain.
func (r *Registry) Register(m *Model) error {
	if existing, ok := r.byStorage[m.Storage()]; ok && existing != m {
		return fmt.Errorf("sdbmap: storage name %q already registered by %s", m.Storage(), existing.Name)
	}
	if _, ok := r.byStorage[m.Storage()]; !ok {
		r.models = append(r.models, m)
	}
	r.byStorage[m.Storage()] = m
	return nil
}

// MustRegister is like Register but panics on conflict.
// This should be called during init() for each model.
func (r *Registry) MustRegister(m *Model) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Lookup returns the model stored under a storage name.
func (r *Registry) Lookup(storageName string) (*Model, bool) {
	m, ok := r.byStorage[storageName]
	return m, ok
}

// Models returns all registered models in registration order.
func (r *Registry) Models() []*Model {
	return r.models
}
