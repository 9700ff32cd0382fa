package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/stuttgart-things/vaulty/internal/locator"
	"github.com/stuttgart-things/vaulty/internal/settings"
)

var (
	initRoots   []string
	initTool    string
	initNoHome  bool
	initExclude []string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .vaulty.yaml settings file",
	Long: `Writes the given defaults to ./.vaulty.yaml (or the --config path) so later
decrypt and locate runs pick them up. Relative roots are kept relative to the file.`,
	Args: cobra.NoArgs,
	Run:  runInit,
}

func init() {
	initCmd.Flags().StringSliceVarP(&initRoots, "root", "r", nil, "Search root to store (repeatable)")
	initCmd.Flags().StringVar(&initTool, "tool", "", "Decryption command to store")
	initCmd.Flags().BoolVar(&initNoHome, "no-home", false, "Store skipHome: true")
	initCmd.Flags().StringSliceVar(&initExclude, "exclude", locator.DefaultExcludeDirs, "Directory names to skip while searching")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing settings file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	path := settingsPath
	if path == "" {
		path = settings.DefaultFileName
	}

	s := &settings.Settings{
		SearchRoots: initRoots,
		Tool:        initTool,
		SkipHome:    initNoHome,
		ExcludeDirs: initExclude,
	}
	if err := writeSettings(path, s, initForce); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Saved: %s", path)))
}

// writeSettings saves s to path, refusing to replace an existing file
// unless force is set.
func writeSettings(path string, s *settings.Settings, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking settings file: %w", err)
		}
	}
	return settings.Save(path, s)
}
