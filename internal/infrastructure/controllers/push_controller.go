package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/devicesync/internal/domain/commands"
	"github.com/rios0rios0/devicesync/internal/domain/entities"
)

// PushController handles the "push" subcommand (repository to device).
type PushController struct {
	command commands.Sync
}

// NewPushController creates a new PushController.
func NewPushController(command commands.Sync) *PushController {
	return &PushController{command: command}
}

// GetBind returns the Cobra command metadata for the push controller.
func (it *PushController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "push",
		Short: "Apply a configuration stored in a git repository to a device",
		Long: `Clone the repository, read <name>_config.txt and replay it line by line
on the device over a serial line (default) or ssh.

The serial transport does not wait for the device to acknowledge lines.`,
	}
}

// Execute runs a push.
func (it *PushController) Execute(cmd *cobra.Command, _ []string) error {
	return runSync(cmd, it.command, entities.DirectionPush)
}

// AddFlags adds the push-specific flags to the given Cobra command.
func (it *PushController) AddFlags(cmd *cobra.Command) {
	addSyncFlags(cmd, entities.DirectionPush)
}
