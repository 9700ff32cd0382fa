package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/stuttgart-things/vaulty/internal/executor"
	"github.com/stuttgart-things/vaulty/internal/probe"
	"github.com/stuttgart-things/vaulty/internal/vault"
	"github.com/stuttgart-things/vaulty/internal/workspace"
)

var (
	decryptRoots          []string
	decryptOutput         string
	decryptTool           string
	decryptForce          bool
	decryptNoHome         bool
	decryptInteractive    bool
	decryptNonInteractive bool
)

// errDecryptFailed signals a failure whose diagnostic was already printed.
var errDecryptFailed = errors.New("decryption failed")

var decryptCmd = &cobra.Command{
	Use:   "decrypt [file]",
	Short: "Decrypt an Ansible Vault file and print the plaintext",
	Long: `Finds the nearest ansible.cfg defining vault_password_file (in the file's
directory, its parents within the search roots, then ~/.ansible.cfg), or uses
$ANSIBLE_VAULT_PASSWORD_FILE, and runs ansible-vault decrypt with it.

On failure a commented diagnostic is printed in place of the plaintext.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDecrypt,
}

func init() {
	decryptCmd.Flags().StringSliceVarP(&decryptRoots, "root", "r", nil, "Search root for ansible.cfg files (repeatable, default: enclosing git worktree)")
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "Write plaintext to this file instead of stdout")
	decryptCmd.Flags().StringVar(&decryptTool, "tool", "", "Decryption command (default: $VAULTY_TOOL or ansible-vault)")
	decryptCmd.Flags().BoolVar(&decryptForce, "force", false, "Decrypt even if the file does not start with $ANSIBLE_VAULT")
	decryptCmd.Flags().BoolVar(&decryptNoHome, "no-home", false, "Do not consult ~/.ansible.cfg")

	// Mode flags
	decryptCmd.Flags().BoolVarP(&decryptInteractive, "interactive", "i", false, "Force interactive mode")
	decryptCmd.Flags().BoolVar(&decryptNonInteractive, "non-interactive", false, "Force non-interactive mode")

	rootCmd.AddCommand(decryptCmd)
}

func runDecrypt(cmd *cobra.Command, args []string) {
	config := &DecryptConfig{
		SearchRoots: decryptRoots,
		Tool:        decryptTool,
		OutputFile:  decryptOutput,
		Force:       decryptForce,
		SkipHome:    decryptNoHome,
		Verbose:     verbose,
	}
	if len(args) == 1 {
		config.Target = args[0]
	}

	// Determine mode
	if decryptNonInteractive {
		config.Interactive = false
	} else if decryptInteractive {
		config.Interactive = true
	} else {
		config.Interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	s, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	applySettings(config, s)

	if config.Target == "" {
		if !config.Interactive {
			fmt.Fprintln(os.Stderr, errorStyle.Render("a vault file argument is required in non-interactive mode"))
			os.Exit(1)
		}
		config.Target, err = selectVaultFile(config)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			os.Exit(1)
		}
	}

	if err := decryptFile(cmd.Context(), config, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errDecryptFailed) {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
		os.Exit(1)
	}
}

// decryptFile decrypts config.Target. Plaintext or, on failure, the
// commented diagnostic goes to stdout; progress and logs go to stderr.
func decryptFile(ctx context.Context, config *DecryptConfig, stdout, stderr io.Writer) error {
	target, err := filepath.Abs(config.Target)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", config.Target, err)
	}

	if !config.Force {
		content, err := probe.ReadText(target)
		if err != nil {
			return err
		}
		if !vault.IsEncrypted(content) {
			return fmt.Errorf("this does not look like an encrypted Ansible Vault file: expecting a file starting with %s", vault.Header)
		}
	}

	if !executor.Installed(config.Tool) {
		fmt.Fprintln(stderr, errorStyle.Render(fmt.Sprintf("%s not found on PATH", config.Tool)))
	}

	roots := workspace.SearchRoots(filepath.Dir(target), config.SearchRoots)
	v := newVault(config, stderr)

	plaintext, err := v.Decrypt(ctx, styledProgress{w: stderr}, target, roots)
	if err != nil {
		doc := vault.RenderError(err)
		if isTerminal(stdout) {
			doc = styleComment(doc)
		}
		fmt.Fprintln(stdout, doc)
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return errDecryptFailed
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, []byte(plaintext), 0600); err != nil {
			return fmt.Errorf("writing plaintext: %w", err)
		}
		fmt.Fprintln(stderr, successStyle.Render(fmt.Sprintf("Saved: %s", config.OutputFile)))
		return nil
	}

	_, err = io.WriteString(stdout, plaintext)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
