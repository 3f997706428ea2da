package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/devicesync/internal/domain/commands"
	"github.com/rios0rios0/devicesync/internal/domain/entities"
)

// addSyncFlags registers the flags shared by pull and push. The commit message
// flag only exists for pull.
func addSyncFlags(cmd *cobra.Command, direction entities.Direction) {
	flags := cmd.Flags()
	flags.StringP(string(entities.FieldName), "n", "", "Device name, used for the config file name")
	flags.StringP(string(entities.FieldAccount), "g", "", "Account owning the repository")
	flags.StringP(string(entities.FieldRepository), "r", "", "Repository name")
	if direction == entities.DirectionPull {
		flags.StringP(string(entities.FieldCommitMessage), "c", "", "Commit message")
	}
	flags.StringP(string(entities.FieldTransport), "s", "",
		"Transport: ssh or serial (default "+string(entities.DefaultTransport(direction))+")")
	flags.StringP(string(entities.FieldDeviceType), "d", "", "Device kind for ssh (default cisco_ios)")
	flags.StringP(string(entities.FieldHost), "i", "", "Device address for ssh")
	flags.StringP(string(entities.FieldUsername), "u", "", "Username for ssh")
	flags.StringP(string(entities.FieldPassword), "p", "", "Password for ssh")
	flags.StringP(string(entities.FieldTTY), "t", "", "Serial device node, e.g. ttyUSB0")
}

// readSyncInput collects the raw flag values. Flags that were not registered
// for this direction read as empty.
func readSyncInput(cmd *cobra.Command, direction entities.Direction) entities.SyncInput {
	get := func(field entities.Field) string {
		value, _ := cmd.Flags().GetString(string(field))
		return value
	}
	return entities.SyncInput{
		Direction:     direction,
		Transport:     get(entities.FieldTransport),
		DeviceName:    get(entities.FieldName),
		Account:       get(entities.FieldAccount),
		Repository:    get(entities.FieldRepository),
		CommitMessage: get(entities.FieldCommitMessage),
		DeviceType:    get(entities.FieldDeviceType),
		Host:          get(entities.FieldHost),
		Username:      get(entities.FieldUsername),
		Password:      get(entities.FieldPassword),
		TTY:           get(entities.FieldTTY),
	}
}

// loadSettings reads the file named by --config, or the first one found in the
// default locations. Running without any configuration file is allowed.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
			return entities.NewDefaultSettings(), nil
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	return entities.NewSettings(configPath)
}

// runSync is the body shared by the pull and push controllers.
func runSync(cmd *cobra.Command, command commands.Sync, direction entities.Direction) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	input := settings.ApplyTo(readSyncInput(cmd, direction))
	result, err := command.Execute(ctx, settings, input)
	if err != nil {
		return err
	}

	switch {
	case direction == entities.DirectionPush:
		logger.Infof("Pushed %d lines of %s to the device", result.LinesApplied, result.ConfigFile)
	case result.Changed:
		logger.Infof("Committed %s as %s", result.ConfigFile, result.CommitHash)
	default:
		logger.Infof("%s is already up to date", result.ConfigFile)
	}
	return nil
}
