package repositories

import (
	"fmt"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	domainRepos "github.com/rios0rios0/devicesync/internal/domain/repositories"
)

// VersionControlFactory is a constructor function that creates a driver from the git settings.
type VersionControlFactory func(cfg entities.GitConfig) domainRepos.VersionControlRepository

// VersionControlRegistry manages all registered version control drivers.
type VersionControlRegistry struct {
	drivers map[string]VersionControlFactory
}

// NewVersionControlRegistry creates an empty driver registry.
func NewVersionControlRegistry() *VersionControlRegistry {
	return &VersionControlRegistry{
		drivers: make(map[string]VersionControlFactory),
	}
}

// Register adds a driver factory under the given name (e.g. "gogit").
func (r *VersionControlRegistry) Register(name string, factory VersionControlFactory) {
	r.drivers[name] = factory
}

// Get returns a configured driver for the given name.
func (r *VersionControlRegistry) Get(
	name string,
	cfg entities.GitConfig,
) (domainRepos.VersionControlRepository, error) {
	factory, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown git driver: %q", name)
	}
	return factory(cfg), nil
}

// Names returns the list of registered driver names.
func (r *VersionControlRegistry) Names() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	return names
}
