package repositories

import (
	"github.com/spf13/afero"
	"go.uber.org/dig"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	domainRepos "github.com/rios0rios0/devicesync/internal/domain/repositories"
	cliRepo "github.com/rios0rios0/devicesync/internal/infrastructure/repositories/gitcli"
	goGitRepo "github.com/rios0rios0/devicesync/internal/infrastructure/repositories/gogit"
	serialRepo "github.com/rios0rios0/devicesync/internal/infrastructure/repositories/serial"
	sshRepo "github.com/rios0rios0/devicesync/internal/infrastructure/repositories/ssh"
	stagingRepo "github.com/rios0rios0/devicesync/internal/infrastructure/repositories/staging"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register transport registry with both transport variants
	if err := container.Provide(func() *TransportRegistry {
		reg := NewTransportRegistry()
		reg.Register(entities.TransportRemoteSession, sshRepo.NewTransportRepository)
		reg.Register(entities.TransportSerialLink, serialRepo.NewTransportRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register version control registry with all drivers
	if err := container.Provide(func() *VersionControlRegistry {
		reg := NewVersionControlRegistry()
		reg.Register(entities.GitDriverGoGit, goGitRepo.NewVersionControlRepository)
		reg.Register(entities.GitDriverCLI, cliRepo.NewVersionControlRepository)
		return reg
	}); err != nil {
		return err
	}

	// Staging areas live on the OS filesystem
	if err := container.Provide(func() domainRepos.StagingRepository {
		return stagingRepo.NewStagingRepository(afero.NewOsFs())
	}); err != nil {
		return err
	}

	return nil
}
