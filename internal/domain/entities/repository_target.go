package entities

const configFileSuffix = "_config.txt"

// RepositoryTarget names the repository holding the configuration and the
// device whose file is synchronized.
type RepositoryTarget struct {
	Account    string
	Repository string
	DeviceName string
}

// ConfigFileName is the single top-level file that holds the device configuration.
func (it RepositoryTarget) ConfigFileName() string {
	return it.DeviceName + configFileSuffix
}

// CloneURL composes the remote URL, e.g. "git@github.com:" + "acme/configs.git".
func (it RepositoryTarget) CloneURL(remoteBase string) string {
	return remoteBase + it.Account + "/" + it.Repository + ".git"
}

// Slug returns "account/repository" for logging.
func (it RepositoryTarget) Slug() string {
	return it.Account + "/" + it.Repository
}
