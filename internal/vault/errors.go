package vault

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Kind classifies a terminal decryption failure.
type Kind string

const (
	KindNoConfigurationFound Kind = "NoConfigurationFound"
	KindDecryptionFailed     Kind = "DecryptionFailed"
)

// Error is the structured failure of a decryption request.
type Error struct {
	Kind    Kind
	Message string
	Detail  string

	// Searched lists every location looked at (NoConfigurationFound): the
	// search roots, each candidate file, then the home configuration path.
	Searched []string
	// ConfigurationFile, PasswordFile and Stderr are set for DecryptionFailed.
	ConfigurationFile string
	PasswordFile      string
	Stderr            string

	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func noConfigurationFound(target string, roots []string, homeConfig string, considered []string) *Error {
	var b strings.Builder
	fmt.Fprintf(&b, "Vaulty tried to find `ansible.cfg` with `vault_password_file=...` defined in\n")
	fmt.Fprintf(&b, "- the same directory as %q\n", filepath.Base(target))
	if len(roots) > 0 {
		fmt.Fprintf(&b, "- its parent directories within %s\n", strings.Join(roots, ", "))
	}
	if homeConfig != "" {
		fmt.Fprintf(&b, "- in the home directory (%s)\n", homeConfig)
	}
	b.WriteString("\nbut could not find a valid configuration.")
	if len(considered) > 0 {
		b.WriteString("\n\nConfiguration files considered:")
		for _, s := range considered {
			fmt.Fprintf(&b, "\n- %s", s)
		}
	}

	searched := make([]string, 0, len(roots)+len(considered)+1)
	searched = append(searched, roots...)
	searched = append(searched, considered...)
	if homeConfig != "" && !slices.Contains(considered, homeConfig) {
		searched = append(searched, homeConfig)
	}

	return &Error{
		Kind:     KindNoConfigurationFound,
		Message:  "No Vault configuration found",
		Detail:   b.String(),
		Searched: searched,
	}
}

func decryptionFailed(cfg Configuration, stderr string, err error) *Error {
	detail := fmt.Sprintf(`Vaulty found an Ansible configuration file

%s

which points to the password file

%s

but decryption failed. This is the error message from `+"`ansible-vault`"+`:

%s`, cfg.ConfigurationFile, cfg.PasswordFile, stderr)

	return &Error{
		Kind:              KindDecryptionFailed,
		Message:           "Decryption failed",
		Detail:            detail,
		ConfigurationFile: cfg.ConfigurationFile,
		PasswordFile:      cfg.PasswordFile,
		Stderr:            stderr,
		Err:               err,
	}
}
