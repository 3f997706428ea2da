package entities

import (
	"go.uber.org/dig"
)

// RegisterProviders registers nothing: no entity lives in the container.
func RegisterProviders(_ *dig.Container) error {
	return nil
}
