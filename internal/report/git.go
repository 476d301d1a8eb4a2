package report

import (
	"os"
	"path/filepath"
	"strings"
)

const shortCommitLen = 8

// GitInfo reads branch and short commit hash from local repository metadata
// under root. Returns nil when no repository is found.
func GitInfo(root string) *Git {
	head, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return nil
	}

	ref := strings.TrimSpace(string(head))

	if strings.HasPrefix(ref, "ref: ") {
		refPath := strings.TrimPrefix(ref, "ref: ")
		branch := strings.TrimPrefix(refPath, "refs/heads/")

		commit, err := os.ReadFile(filepath.Join(root, ".git", filepath.FromSlash(refPath)))
		if err != nil {
			return &Git{Branch: branch}
		}

		return &Git{
			Branch: branch,
			Commit: shortCommit(strings.TrimSpace(string(commit))),
		}
	}

	// Detached HEAD: the file holds the commit hash directly.
	return &Git{Commit: shortCommit(ref)}
}

func shortCommit(hash string) string {
	if len(hash) > shortCommitLen {
		return hash[:shortCommitLen]
	}
	return hash
}
