package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	settingsPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "vaulty",
	Short: "Decrypt Ansible Vault files with the right password file",
	Long: `Vaulty finds the ansible.cfg that applies to an encrypted Ansible Vault file,
resolves its vault_password_file and runs ansible-vault to show the plaintext.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(logo)
		_ = cmd.Usage()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "Settings file (default: ./.vaulty.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every configuration candidate considered")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
