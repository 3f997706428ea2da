package entities

import (
	"fmt"
	"path/filepath"
	"strings"
)

// StagingState is the lifecycle state of a StagingArea.
type StagingState string

const (
	StagingOpen     StagingState = "open"
	StagingReleased StagingState = "released"
)

// StagingArea is the isolated working directory owned by exactly one run.
type StagingArea struct {
	path  string
	state StagingState
}

// NewStagingArea wraps an already created directory.
func NewStagingArea(path string) *StagingArea {
	return &StagingArea{path: filepath.Clean(path), state: StagingOpen}
}

func (it *StagingArea) Path() string { return it.path }
func (it *StagingArea) State() StagingState { return it.state }
func (it *StagingArea) IsReleased() bool { return it.state == StagingReleased }

// MarkReleased records that the directory has been removed.
func (it *StagingArea) MarkReleased() {
	it.state = StagingReleased
}

// Within composes an absolute path inside the area. Absolute inputs and paths
// that climb out of the area are rejected, so untrusted names never address
// anything outside it.
func (it *StagingArea) Within(relativePath string) (string, error) {
	if it.IsReleased() {
		return "", ErrStagingReleased
	}
	if relativePath == "" || filepath.IsAbs(relativePath) {
		return "", fmt.Errorf("%w: %q", ErrPathEscapesStaging, relativePath)
	}

	joined := filepath.Join(it.path, relativePath)
	rel, err := filepath.Rel(it.path, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathEscapesStaging, relativePath)
	}
	return joined, nil
}
