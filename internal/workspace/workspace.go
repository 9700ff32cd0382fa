package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"

	"github.com/stuttgart-things/vaulty/internal/vault"
)

// ErrNotRepository is returned when no git worktree encloses a path.
var ErrNotRepository = errors.New("not a git repository")

// Root returns the worktree root of the git repository enclosing dir.
func Root(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", ErrNotRepository
		}
		return "", fmt.Errorf("opening repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}

// SearchRoots returns the directories to scan for configuration files.
// Explicit roots are used as given (made absolute). Otherwise the git
// worktree enclosing dir is used, falling back to dir itself.
func SearchRoots(dir string, explicit []string) []string {
	if len(explicit) > 0 {
		roots := make([]string, 0, len(explicit))
		for _, r := range explicit {
			if abs, err := filepath.Abs(r); err == nil {
				r = abs
			}
			roots = append(roots, r)
		}
		return roots
	}

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if root, err := Root(dir); err == nil {
		return []string{root}
	}
	return []string{dir}
}

// VaultFiles returns every file under roots that starts with the Ansible
// Vault header, sorted. Directories named in exclude are skipped.
func VaultFiles(roots []string, exclude []string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && skip[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if isFile(path, d) && !seen[path] && hasVaultHeader(path) {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
	}

	sort.Strings(files)
	return files
}

// isFile follows symlinks so linked vault files are listed too.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func hasVaultHeader(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, len(vault.Header))
	if _, err := io.ReadFull(f, buf); err != nil {
		return false
	}
	return vault.IsEncrypted(string(buf))
}
