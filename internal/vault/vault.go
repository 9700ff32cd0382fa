package vault

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/stuttgart-things/vaulty/internal/executor"
	"github.com/stuttgart-things/vaulty/internal/locator"
	"github.com/stuttgart-things/vaulty/internal/resolver"
)

const (
	// DefaultTool is the decryption command.
	DefaultTool = "ansible-vault"
	// Header starts every encrypted vault file.
	Header = "$ANSIBLE_VAULT"
	// EnvConfigurationFile is reported as the configuration source when
	// the environment override is used.
	EnvConfigurationFile = "$" + resolver.EnvPasswordFile
)

// IsEncrypted reports whether content looks like an Ansible Vault file.
func IsEncrypted(content string) bool {
	return strings.HasPrefix(content, Header)
}

// Configuration pairs a configuration source with the password file it
// points to.
type Configuration struct {
	ConfigurationFile string
	PasswordFile      string
	FromEnvironment   bool
}

// Progress receives state-entry notifications.
type Progress interface {
	Report(message string)
}

// NopProgress discards reports.
type NopProgress struct{}

func (NopProgress) Report(string) {}

const (
	MessageSearching  = "Searching for Vault configuration..."
	MessageDecrypting = "Found Vault configuration, decrypting..."
)

// Vault decrypts Ansible Vault files with ansible-vault. A Vault holds no
// per-request state and is safe for concurrent use.
type Vault struct {
	Locator  *locator.Locator
	Resolver *resolver.Resolver
	Executor executor.Executor
	Tool     string
	Logger   *slog.Logger
}

// New returns a Vault for the current user and environment.
func New(logger *slog.Logger) *Vault {
	return &Vault{
		Locator:  locator.New(logger),
		Resolver: resolver.New(logger),
		Executor: executor.New(),
		Tool:     DefaultTool,
		Logger:   logger,
	}
}

// FindConfiguration returns the first usable configuration for target.
// The environment override wins over any file. When nothing is found the
// result is an *Error of kind NoConfigurationFound.
func (v *Vault) FindConfiguration(target string, roots []string) (Configuration, error) {
	logger := v.logger()

	if pw, ok := v.Resolver.Override(); ok {
		return Configuration{
			ConfigurationFile: EnvConfigurationFile,
			PasswordFile:      pw,
			FromEnvironment:   true,
		}, nil
	}

	candidates := v.Locator.Locate(filepath.Dir(target), roots)
	considered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		considered = append(considered, c.Path)
		pw, ok, err := v.Resolver.Resolve(c)
		if err != nil {
			logger.Warn("skipping unreadable configuration file", "path", c.Path, "error", err)
			continue
		}
		if ok {
			return Configuration{ConfigurationFile: c.Path, PasswordFile: pw}, nil
		}
	}

	return Configuration{}, noConfigurationFound(target, roots, v.Locator.HomeConfigPath(), considered)
}

// Decrypt finds the configuration for target and returns the tool's
// plaintext unchanged. Failures are *Error values.
func (v *Vault) Decrypt(ctx context.Context, progress Progress, target string, roots []string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if progress == nil {
		progress = NopProgress{}
	}
	logger := v.logger().With("request", uuid.NewString(), "target", target)

	if abs, err := filepath.Abs(target); err == nil {
		target = abs
	}

	progress.Report(MessageSearching)
	logger.Debug("searching for configuration", "roots", roots)
	cfg, err := v.FindConfiguration(target, roots)
	if err != nil {
		logger.Info("no configuration found")
		return "", err
	}

	progress.Report(MessageDecrypting)
	args := DecryptArgs(cfg.PasswordFile, target)
	logger.Info("decrypting vault",
		"config", cfg.ConfigurationFile, "password_file", cfg.PasswordFile, "args", strings.Join(args, " "))

	out, err := v.Executor.Execute(ctx, v.tool(), args...)
	if err != nil {
		// *executor.ExecutionError renders as the tool's stderr.
		stderr := err.Error()
		logger.Info("decryption failed", "error", strings.TrimSpace(stderr))
		return "", decryptionFailed(cfg, stderr, err)
	}

	return out, nil
}

// Open is Decrypt for callers that only display text: failures come back
// as a commented diagnostic document instead of an error.
func (v *Vault) Open(ctx context.Context, progress Progress, target string, roots []string) string {
	out, err := v.Decrypt(ctx, progress, target, roots)
	if err != nil {
		return RenderError(err)
	}
	return out
}

// DecryptArgs returns the ansible-vault arguments that decrypt target to
// standard output.
func DecryptArgs(passwordFile, target string) []string {
	return []string{
		"decrypt",
		"--vault-password-file=" + passwordFile,
		"--output=-",
		target,
	}
}

func (v *Vault) tool() string {
	if v.Tool == "" {
		return DefaultTool
	}
	return v.Tool
}

func (v *Vault) logger() *slog.Logger {
	if v.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return v.Logger
}
