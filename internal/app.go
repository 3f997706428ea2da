package internal

import "github.com/rios0rios0/devicesync/internal/domain/entities"

// AppInternal holds everything the CLI mounts.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the AppInternal from the registered controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns the controllers to mount as subcommands.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
