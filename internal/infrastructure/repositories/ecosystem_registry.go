package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// EcosystemFactory opens an ecosystem on the given location.
type EcosystemFactory func(location string) (domainRepos.EcosystemRepository, error)

// EcosystemRegistry manages all registered ecosystem implementations.
type EcosystemRegistry struct {
	ecosystems map[string]EcosystemFactory
}

// NewEcosystemRegistry creates an empty ecosystem registry.
func NewEcosystemRegistry() *EcosystemRegistry {
	return &EcosystemRegistry{
		ecosystems: make(map[string]EcosystemFactory),
	}
}

// Register adds an ecosystem factory under the given name (e.g. "replay").
func (r *EcosystemRegistry) Register(name string, factory EcosystemFactory) {
	r.ecosystems[name] = factory
}

// Get opens the ecosystem with the given name on the location.
func (r *EcosystemRegistry) Get(name, location string) (domainRepos.EcosystemRepository, error) {
	factory, ok := r.ecosystems[name]
	if !ok {
		return nil, fmt.Errorf("unknown ecosystem source: %q", name)
	}
	return factory(location)
}

// Names returns the sorted list of registered ecosystem names.
func (r *EcosystemRegistry) Names() []string {
	names := make([]string, 0, len(r.ecosystems))
	for name := range r.ecosystems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
