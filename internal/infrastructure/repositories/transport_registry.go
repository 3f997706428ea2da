package repositories

import (
	"fmt"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	domainRepos "github.com/rios0rios0/devicesync/internal/domain/repositories"
)

// TransportFactory is a constructor function that creates a TransportRepository from the settings.
type TransportFactory func(settings *entities.Settings) domainRepos.TransportRepository

// TransportRegistry manages all registered transport implementations.
type TransportRegistry struct {
	transports map[entities.TransportVariant]TransportFactory
}

// NewTransportRegistry creates an empty transport registry.
func NewTransportRegistry() *TransportRegistry {
	return &TransportRegistry{
		transports: make(map[entities.TransportVariant]TransportFactory),
	}
}

// Register adds a transport factory under the given variant.
func (r *TransportRegistry) Register(variant entities.TransportVariant, factory TransportFactory) {
	r.transports[variant] = factory
}

// Get returns a configured transport for the given variant.
func (r *TransportRegistry) Get(
	variant entities.TransportVariant,
	settings *entities.Settings,
) (domainRepos.TransportRepository, error) {
	factory, ok := r.transports[variant]
	if !ok {
		return nil, fmt.Errorf("unknown transport: %q", variant)
	}
	return factory(settings), nil
}

// Variants returns the list of registered transport variants.
func (r *TransportRegistry) Variants() []entities.TransportVariant {
	variants := make([]entities.TransportVariant, 0, len(r.transports))
	for variant := range r.transports {
		variants = append(variants, variant)
	}
	return variants
}
