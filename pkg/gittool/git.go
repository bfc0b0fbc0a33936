package gittool

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var ErrNoCommit = errors.New("repository has no commit")

// GitClient reads repository metadata attached to generated reports.
type GitClient interface {
	// HeadCommit returns the hash of the commit HEAD points to.
	HeadCommit() (string, error)
	// Branch returns the short name of the checked out branch, empty on a detached HEAD.
	Branch() (string, error)
}

// NewGitClient opens the repository containing repositoryPath,
// walking up the parent directories to find the .git directory.
func NewGitClient(repositoryPath string) (GitClient, error) {
	repository, err := gogit.PlainOpenWithOptions(repositoryPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", repositoryPath, err)
	}

	return &gitClient{repository: repository}, nil
}

type gitClient struct {
	repository *gogit.Repository
}

var _ GitClient = (*gitClient)(nil)

func (client *gitClient) HeadCommit() (string, error) {
	ref, err := client.repository.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoCommit
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

func (client *gitClient) Branch() (string, error) {
	ref, err := client.repository.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoCommit
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !ref.Name().IsBranch() {
		return "", nil
	}
	return ref.Name().Short(), nil
}
