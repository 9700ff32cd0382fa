package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stuttgart-things/vaulty/internal/locator"
	"github.com/stuttgart-things/vaulty/internal/probe"
)

// EnvPasswordFile names the environment override for the password file.
const EnvPasswordFile = "ANSIBLE_VAULT_PASSWORD_FILE"

var passwordFileKey = regexp.MustCompile(`(?m)^[ \t]*vault_password_file[ \t]*=[ \t]*(.*?)[ \t\r]*$`)

// Resolver turns configuration candidates into password file locations.
type Resolver struct {
	HomeDir string
	Getenv  func(string) string
	Logger  *slog.Logger
}

// New returns a Resolver reading the process environment.
func New(logger *slog.Logger) *Resolver {
	home, _ := os.UserHomeDir()
	return &Resolver{HomeDir: home, Getenv: os.Getenv, Logger: logger}
}

// Override returns the password file named by ANSIBLE_VAULT_PASSWORD_FILE.
// A relative value is made absolute against the working directory.
func (r *Resolver) Override() (string, bool) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	value := strings.TrimSpace(getenv(EnvPasswordFile))
	if value == "" {
		return "", false
	}
	path := r.expandHome(value)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	r.logger().Debug("using password file from environment", "variable", EnvPasswordFile, "path", path)
	return path, true
}

// Resolve returns the password file configured in candidate. It reports
// false when the candidate has no vault_password_file entry. A candidate
// that cannot be read yields the *probe.ReadError; callers treat it as
// "no password file here".
func (r *Resolver) Resolve(candidate locator.Candidate) (string, bool, error) {
	content, err := probe.ReadText(candidate.Path)
	if err != nil {
		r.logger().Debug("cannot read configuration file", "path", candidate.Path, "error", err)
		return "", false, err
	}

	value, ok := ParsePasswordFile(content)
	if !ok {
		r.logger().Debug("no vault_password_file found", "path", candidate.Path)
		return "", false, nil
	}

	path := r.expandHome(value)
	if !filepath.IsAbs(path) {
		path = filepath.Join(candidate.Dir, path)
	}
	path = filepath.Clean(path)
	r.logger().Debug("found vault_password_file",
		"config", candidate.Path, "value", value, "resolved", path)
	return path, true, nil
}

// ParsePasswordFile extracts the first vault_password_file value from
// INI-like content. An empty value counts as absent.
func ParsePasswordFile(content string) (string, bool) {
	m := passwordFileKey.FindStringSubmatch(content)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

func (r *Resolver) expandHome(path string) string {
	if r.HomeDir == "" {
		return path
	}
	if path == "~" {
		return r.HomeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(r.HomeDir, path[2:])
	}
	return path
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
