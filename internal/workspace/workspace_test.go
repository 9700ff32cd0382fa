package workspace_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	git "github.com/go-git/go-git/v5"

	"github.com/stuttgart-things/vaulty/internal/workspace"
)

func initTestRepo(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	if _, err := git.PlainInit(tmpDir, false); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return tmpDir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRoot(t *testing.T) {
	repoPath := initTestRepo(t)
	nested := filepath.Join(repoPath, "inventories", "prod", "group_vars")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
	}{
		{"from repo root", repoPath},
		{"from nested directory", nested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workspace.Root(tt.dir)
			if err != nil {
				t.Fatalf("Root() error = %v", err)
			}
			if got != repoPath {
				t.Errorf("Root() = %s, want %s", got, repoPath)
			}
		})
	}
}

func TestRootNotRepository(t *testing.T) {
	_, err := workspace.Root(t.TempDir())
	if !errors.Is(err, workspace.ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestSearchRoots(t *testing.T) {
	t.Run("explicit roots win", func(t *testing.T) {
		a, b := t.TempDir(), t.TempDir()
		got := workspace.SearchRoots(a, []string{a, b})
		if !reflect.DeepEqual(got, []string{a, b}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("git worktree", func(t *testing.T) {
		repoPath := initTestRepo(t)
		target := filepath.Join(repoPath, "group_vars", "all", "vault.yml")
		write(t, target, "$ANSIBLE_VAULT;1.1;AES256\n")

		got := workspace.SearchRoots(filepath.Dir(target), nil)
		if !reflect.DeepEqual(got, []string{repoPath}) {
			t.Errorf("got %v, want [%s]", got, repoPath)
		}
	})

	t.Run("outside a repository", func(t *testing.T) {
		dir := t.TempDir()
		got := workspace.SearchRoots(dir, nil)
		if !reflect.DeepEqual(got, []string{dir}) {
			t.Errorf("got %v, want [%s]", got, dir)
		}
	})
}

func TestVaultFiles(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "group_vars", "all", "vault.yml"), "$ANSIBLE_VAULT;1.1;AES256\n6162\n")
	write(t, filepath.Join(root, "host_vars", "web", "secrets.yml"), "$ANSIBLE_VAULT;1.2;AES256;prod\n6162\n")
	write(t, filepath.Join(root, "group_vars", "all", "vars.yml"), "plain: value\n")
	write(t, filepath.Join(root, "short"), "$ANS")
	write(t, filepath.Join(root, ".git", "objects", "vault.yml"), "$ANSIBLE_VAULT;1.1;AES256\n")

	got := workspace.VaultFiles([]string{root}, []string{".git"})
	want := []string{
		filepath.Join(root, "group_vars", "all", "vault.yml"),
		filepath.Join(root, "host_vars", "web", "secrets.yml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VaultFiles() = %v, want %v", got, want)
	}
}

func TestVaultFilesFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	shared := t.TempDir()
	target := filepath.Join(shared, "vault.yml")
	write(t, target, "$ANSIBLE_VAULT;1.1;AES256\n6162\n")
	write(t, filepath.Join(root, "group_vars", "all", "vars.yml"), "plain: value\n")

	link := filepath.Join(root, "group_vars", "all", "vault.yml")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(shared, "missing.yml"), filepath.Join(root, "broken.yml")); err != nil {
		t.Fatal(err)
	}

	got := workspace.VaultFiles([]string{root}, nil)
	want := []string{link}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VaultFiles() = %v, want %v", got, want)
	}
}
