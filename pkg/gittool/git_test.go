package gittool

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGitClient(t *testing.T) {
	t.Run("should new git client fail", func(t *testing.T) {
		_, err := NewGitClient(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("should new git client successfully", func(t *testing.T) {
		path, _ := temporalRepository(t, "")

		client, err := NewGitClient(path)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("should detect repository from sub directory", func(t *testing.T) {
		path, _ := temporalRepository(t, "")
		sub := filepath.Join(path, "Sources", "App")
		require.NoError(t, os.MkdirAll(sub, 0755))

		client, err := NewGitClient(sub)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func headCommit(path string) (string, error) {
	client, err := NewGitClient(path)
	if err != nil {
		return "", err
	}
	return client.HeadCommit()
}

func TestHeadCommit(t *testing.T) {
	t.Run("returns the HEAD hash", func(t *testing.T) {
		path, repo := temporalRepository(t, "")

		head, err := repo.Head()
		require.NoError(t, err)

		commit, err := headCommit(path)
		require.NoError(t, err)
		assert.Equal(t, head.Hash().String(), commit)
		assert.Len(t, commit, 40)
	})

	t.Run("empty repository", func(t *testing.T) {
		path := t.TempDir()
		_, err := gogit.PlainInit(path, false)
		require.NoError(t, err)

		_, err = headCommit(path)
		assert.ErrorIs(t, err, ErrNoCommit)
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := headCommit(t.TempDir())
		assert.Error(t, err)
	})
}

func TestBranch(t *testing.T) {
	path, _ := temporalRepository(t, "feature")

	client, err := NewGitClient(path)
	require.NoError(t, err)

	branch, err := client.Branch()
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

// temporalRepository creates a temp git repository with one commit for testing.
func temporalRepository(t *testing.T, newBranch string) (string, *gogit.Repository) {
	t.Helper()
	tmpDir := t.TempDir()

	repo, err := gogit.PlainInit(tmpDir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	filename := filepath.Join(tmpDir, "example-git-file")
	require.NoError(t, os.WriteFile(filename, []byte("hello world!"), 0644))

	_, err = worktree.Add("example-git-file")
	require.NoError(t, err)

	_, err = worktree.Commit("init commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "foo",
			Email: "foo@bar.org",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	if newBranch != "" {
		err = worktree.Checkout(&gogit.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(newBranch),
			Create: true,
		})
		require.NoError(t, err)
	}

	return tmpDir, repo
}
