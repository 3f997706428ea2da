package gogit

import "github.com/go-git/go-git/v5/plumbing/transport"

// AuthFor exposes the auth selection of a driver built from cfg.
func AuthFor(driver *VersionControlRepository, remoteURL string) (transport.AuthMethod, error) {
	return driver.authFor(remoteURL)
}
