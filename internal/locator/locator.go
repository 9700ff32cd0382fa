package locator

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stuttgart-things/vaulty/internal/probe"
)

const (
	// ConfigFileName is the per-project Ansible configuration file.
	ConfigFileName = "ansible.cfg"
	// HomeConfigFileName is the per-user configuration file in $HOME.
	HomeConfigFileName = ".ansible.cfg"
)

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = []string{".git", "node_modules"}

// Candidate is a discovered configuration file.
type Candidate struct {
	Path string
	Dir  string
	Home bool
}

// Locator discovers configuration files for a target directory.
type Locator struct {
	// HomeDir is probed for .ansible.cfg. Empty disables the home probe.
	HomeDir     string
	ExcludeDirs []string
	Logger      *slog.Logger
}

// New returns a Locator probing the current user's home directory.
func New(logger *slog.Logger) *Locator {
	home, _ := os.UserHomeDir()
	return &Locator{
		HomeDir:     home,
		ExcludeDirs: DefaultExcludeDirs,
		Logger:      logger,
	}
}

// HomeConfigPath returns the well-known per-user configuration path, or ""
// if no home directory is configured.
func (l *Locator) HomeConfigPath() string {
	if l.HomeDir == "" {
		return ""
	}
	return filepath.Join(l.HomeDir, HomeConfigFileName)
}

// Locate returns configuration candidates for targetDir, most specific
// first. Workspace files under roots that sit in targetDir or one of its
// ancestors come first, ordered by directory depth; the home file, if
// present, is last. An empty result is not an error.
func (l *Locator) Locate(targetDir string, roots []string) []Candidate {
	logger := l.logger()

	absTarget, err := filepath.Abs(targetDir)
	if err != nil {
		absTarget = filepath.Clean(targetDir)
	}

	files := l.Find(roots)
	logger.Debug("found configuration files in search roots", "count", len(files), "files", files)

	var candidates []Candidate
	for _, f := range files {
		dir := filepath.Dir(f)
		if IsAncestor(dir, absTarget) {
			candidates = append(candidates, Candidate{Path: f, Dir: dir})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Dir) > len(candidates[j].Dir)
	})
	logger.Debug("configuration files in parent directories of target",
		"target_dir", absTarget, "count", len(candidates), "files", paths(candidates))

	if home := l.HomeConfigPath(); home != "" {
		if probe.Exists(home) {
			logger.Debug("found configuration in home directory", "path", home)
			candidates = append(candidates, Candidate{Path: home, Dir: filepath.Dir(home), Home: true})
		} else {
			logger.Debug("no configuration in home directory", "path", home)
		}
	}

	return candidates
}

// Find returns every ansible.cfg under roots, deduplicated and sorted.
// Unreadable directories are skipped.
func (l *Locator) Find(roots []string) []string {
	exclude := make(map[string]bool, len(l.ExcludeDirs))
	for _, name := range l.ExcludeDirs {
		exclude[name] = true
	}

	seen := make(map[string]bool)
	var found []string
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != absRoot {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != absRoot && exclude[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() == ConfigFileName && isFile(path, d) && !seen[path] {
				seen[path] = true
				found = append(found, path)
			}
			return nil
		})
	}

	sort.Strings(found)
	return found
}

// isFile reports whether d is a regular file or a symlink to one.
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

// IsAncestor reports whether dir equals target or is one of its ancestors.
// Paths are compared segment by segment, so /proj/abc is not an ancestor
// of /proj/abcdef.
func IsAncestor(dir, target string) bool {
	if filepath.VolumeName(dir) != filepath.VolumeName(target) {
		return false
	}
	ds := segments(dir)
	ts := segments(target)
	if len(ds) > len(ts) {
		return false
	}
	for i := range ds {
		if ds[i] != ts[i] {
			return false
		}
	}
	return true
}

func segments(p string) []string {
	p = filepath.ToSlash(strings.TrimPrefix(filepath.Clean(p), filepath.VolumeName(p)))
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func paths(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Path
	}
	return out
}

func (l *Locator) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}
