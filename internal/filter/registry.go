package filter

import (
	"fmt"

	"ordergate/internal/config"
)

// Factory builds one configured Middleware. Anything exposing Apply is a
// filter; variants are selected by name from the registry, not by
// subclassing.
type Factory interface {
	Name() string
	Apply(cfg Config) (Middleware, error)
}

// Registry maps filter names to factories. It is populated at startup and
// immutable afterwards; there is no hot reload.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

func (r *Registry) Register(f Factory) error {
	if _, exists := r.factories[f.Name()]; exists {
		return fmt.Errorf("filter %q already registered", f.Name())
	}
	r.factories[f.Name()] = f
	return nil
}

func (r *Registry) MustRegister(f Factory) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Build assembles a chain from ordered (name, config) pairs. Unknown names
// and rejected configs fail assembly; a misconfigured route never serves.
func (r *Registry) Build(specs []config.FilterSpec) (Chain, error) {
	middlewares := make([]Middleware, 0, len(specs))

	for _, spec := range specs {
		factory, ok := r.factories[spec.Name]
		if !ok {
			return Chain{}, fmt.Errorf("unknown filter: %q", spec.Name)
		}

		mw, err := factory.Apply(Config(spec.Config))
		if err != nil {
			return Chain{}, fmt.Errorf("filter %q: %w", spec.Name, err)
		}
		middlewares = append(middlewares, mw)
	}

	return NewChain(middlewares...), nil
}
