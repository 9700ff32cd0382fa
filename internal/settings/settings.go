package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no settings
// path is given.
const DefaultFileName = ".vaulty.yaml"

// Settings holds optional defaults for vaulty commands.
type Settings struct {
	SearchRoots []string `yaml:"searchRoots"`
	Tool        string   `yaml:"tool"`
	SkipHome    bool     `yaml:"skipHome"`
	ExcludeDirs []string `yaml:"excludeDirs"`
}

// Load reads and parses a settings file. Relative search roots are
// resolved against the directory containing the file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}

	base := filepath.Dir(path)
	for i, r := range s.SearchRoots {
		if !filepath.IsAbs(r) {
			s.SearchRoots[i] = filepath.Join(base, r)
		}
	}

	return &s, nil
}

// LoadOptional is Load, except that a missing file yields empty settings.
func LoadOptional(path string) (*Settings, error) {
	s, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Settings{}, nil
	}
	return s, err
}

// Save writes settings to a YAML file.
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}
