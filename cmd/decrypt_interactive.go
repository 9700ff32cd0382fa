package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/stuttgart-things/vaulty/internal/workspace"
)

// selectVaultFile lets the user pick a vault file under the search roots
func selectVaultFile(config *DecryptConfig) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	roots := workspace.SearchRoots(cwd, config.SearchRoots)
	files := workspace.VaultFiles(roots, config.ExcludeDirs)
	if len(files) == 0 {
		return "", fmt.Errorf("no Ansible Vault files found under %v", roots)
	}

	// If only one option, return it directly
	if len(files) == 1 {
		return files[0], nil
	}

	options := make([]huh.Option[string], len(files))
	for i, f := range files {
		label := f
		if rel, err := filepath.Rel(cwd, f); err == nil {
			label = rel
		}
		options[i] = huh.NewOption(label, f)
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which vault file do you want to decrypt?").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return selected, nil
}
