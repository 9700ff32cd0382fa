package cmd

import (
	"io"
	"os"

	"github.com/stuttgart-things/vaulty/internal/executor"
	"github.com/stuttgart-things/vaulty/internal/locator"
	"github.com/stuttgart-things/vaulty/internal/logging"
	"github.com/stuttgart-things/vaulty/internal/resolver"
	"github.com/stuttgart-things/vaulty/internal/settings"
	"github.com/stuttgart-things/vaulty/internal/vault"
)

// envTool overrides the decryption command.
const envTool = "VAULTY_TOOL"

// loadSettings reads the --config file, or ./.vaulty.yaml when present.
func loadSettings() (*settings.Settings, error) {
	if settingsPath != "" {
		return settings.Load(settingsPath)
	}
	return settings.LoadOptional(settings.DefaultFileName)
}

// applySettings fills unset config fields from the settings file and the
// environment. Flags win over the environment, which wins over settings.
func applySettings(config *DecryptConfig, s *settings.Settings) {
	if len(config.SearchRoots) == 0 {
		config.SearchRoots = s.SearchRoots
	}
	if len(config.ExcludeDirs) == 0 {
		config.ExcludeDirs = s.ExcludeDirs
	}
	if len(config.ExcludeDirs) == 0 {
		config.ExcludeDirs = locator.DefaultExcludeDirs
	}
	if s.SkipHome {
		config.SkipHome = true
	}
	if config.Tool == "" {
		config.Tool = os.Getenv(envTool)
	}
	if config.Tool == "" {
		config.Tool = s.Tool
	}
	if config.Tool == "" {
		config.Tool = vault.DefaultTool
	}
}

// newVault wires a Vault for config, logging diagnostics to logOut.
func newVault(config *DecryptConfig, logOut io.Writer) *vault.Vault {
	logger := logging.New(logOut, config.Verbose)

	loc := locator.New(logger)
	loc.ExcludeDirs = config.ExcludeDirs
	if config.SkipHome {
		loc.HomeDir = ""
	}

	return &vault.Vault{
		Locator:  loc,
		Resolver: resolver.New(logger),
		Executor: executor.New(),
		Tool:     config.Tool,
		Logger:   logger,
	}
}

// styledProgress prints progress reports to w.
type styledProgress struct {
	w io.Writer
}

func (p styledProgress) Report(message string) {
	_, _ = io.WriteString(p.w, progressStyle.Render(message)+"\n")
}
