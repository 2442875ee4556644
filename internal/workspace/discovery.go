// SPDX-License-Identifier: MPL-2.0

// Package workspace fans a single task name out across the sibling git
// repositories under a workspace root, sequentially or in parallel, and
// aggregates the outcomes into one report.
package workspace

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"taskmill-cli/internal/issue"
	"taskmill-cli/pkg/taskfile"
)

// Repo is one discovered workspace repository.
type Repo struct {
	Name string
	Path string
}

// DiscoverRepos finds the direct subdirectories of root that are git
// repositories. The repository name comes from the task file's [project].name
// when present, the directory name otherwise. Results are in directory-name
// order, which is the attempt order for sequential runs.
func DiscoverRepos(root string) ([]Repo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("discover workspace repositories").
			WithResource(root).
			WithSuggestion("Check that the workspace root exists and is readable").
			WithSuggestion("Set the workspace root with --root or in the config file").
			Wrap(err).
			BuildError()
	}

	var repos []Repo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		repoPath := filepath.Join(root, entry.Name())
		if !isGitRepo(repoPath) {
			continue
		}
		repos = append(repos, Repo{
			Name: repoName(repoPath, entry.Name()),
			Path: repoPath,
		})
	}
	return repos, nil
}

// FilterRepos keeps the repositories whose name matches the glob pattern. An
// empty pattern keeps everything.
func FilterRepos(repos []Repo, pattern string) ([]Repo, error) {
	if pattern == "" {
		return repos, nil
	}
	return FilterReposAny(repos, []string{pattern})
}

// FilterReposAny keeps the repositories whose name matches any of the glob
// patterns. An empty pattern list keeps everything.
func FilterReposAny(repos []Repo, patterns []string) ([]Repo, error) {
	if len(patterns) == 0 {
		return repos, nil
	}

	filtered := make([]Repo, 0, len(repos))
	for _, repo := range repos {
		for _, pattern := range patterns {
			ok, err := path.Match(pattern, repo.Name)
			if err != nil {
				return nil, fmt.Errorf("invalid repository pattern %q: %w", pattern, err)
			}
			if ok {
				filtered = append(filtered, repo)
				break
			}
		}
	}
	return filtered, nil
}

// isGitRepo accepts both a .git directory and the .git file that worktree and
// submodule checkouts carry.
func isGitRepo(repoPath string) bool {
	_, err := os.Stat(filepath.Join(repoPath, ".git"))
	return err == nil
}

// repoName reads [project].name from the repository's task file, falling back
// to the directory name when the file is missing, malformed, or silent.
func repoName(repoPath, fallback string) string {
	data, err := os.ReadFile(filepath.Join(repoPath, taskfile.DefaultFileName))
	if err != nil {
		return fallback
	}

	var doc struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil || doc.Project.Name == "" {
		return fallback
	}
	return doc.Project.Name
}
