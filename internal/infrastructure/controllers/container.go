package controllers

import (
	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewPullController); err != nil {
		return err
	}
	if err := container.Provide(NewPushController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	pullController *PullController,
	pushController *PushController,
) *[]entities.Controller {
	return &[]entities.Controller{
		pullController,
		pushController,
	}
}
