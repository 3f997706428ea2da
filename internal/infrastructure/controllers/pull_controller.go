package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/devicesync/internal/domain/commands"
	"github.com/rios0rios0/devicesync/internal/domain/entities"
)

// PullController handles the "pull" subcommand (device to repository).
type PullController struct {
	command commands.Sync
}

// NewPullController creates a new PullController.
func NewPullController(command commands.Sync) *PullController {
	return &PullController{command: command}
}

// GetBind returns the Cobra command metadata for the pull controller.
func (it *PullController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "pull",
		Short: "Copy the running configuration of a device into a git repository",
		Long: `Clone the repository, read the running configuration from the device
over ssh (default) or a serial line, write it to <name>_config.txt,
then commit it with the given message and push.

Nothing is committed when the configuration did not change.`,
	}
}

// Execute runs a pull.
func (it *PullController) Execute(cmd *cobra.Command, _ []string) error {
	return runSync(cmd, it.command, entities.DirectionPull)
}

// AddFlags adds the pull-specific flags to the given Cobra command.
func (it *PullController) AddFlags(cmd *cobra.Command) {
	addSyncFlags(cmd, entities.DirectionPull)
}
