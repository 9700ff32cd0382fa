package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stuttgart-things/vaulty/internal/vault"
	"github.com/stuttgart-things/vaulty/internal/workspace"
)

// Candidate statuses reported by locate
const (
	statusSelected   = "selected"
	statusShadowed   = "shadowed"
	statusNoKey      = "no vault_password_file"
	statusUnreadable = "unreadable"
)

var (
	locateRoots  []string
	locateNoHome bool
	locateOutput string
)

// LocateEntry describes one configuration source in priority order
type LocateEntry struct {
	Priority          int    `json:"priority" yaml:"priority"`
	ConfigurationFile string `json:"configurationFile" yaml:"configurationFile"`
	PasswordFile      string `json:"passwordFile,omitempty" yaml:"passwordFile,omitempty"`
	PasswordFileFound bool   `json:"passwordFileFound" yaml:"passwordFileFound"`
	Status            string `json:"status" yaml:"status"`
	Error             string `json:"error,omitempty" yaml:"error,omitempty"`
}

var locateCmd = &cobra.Command{
	Use:   "locate <file>",
	Short: "Show which configuration would be used to decrypt a file",
	Long:  `Lists the environment override, every ansible.cfg in the file's directory and its parents within the search roots, and ~/.ansible.cfg, in the order they are tried.`,
	Args:  cobra.ExactArgs(1),
	Run:   runLocate,
}

func init() {
	locateCmd.Flags().StringSliceVarP(&locateRoots, "root", "r", nil, "Search root for ansible.cfg files (repeatable, default: enclosing git worktree)")
	locateCmd.Flags().BoolVar(&locateNoHome, "no-home", false, "Do not consult ~/.ansible.cfg")
	locateCmd.Flags().StringVarP(&locateOutput, "output", "o", "table", "Output format (table, json, yaml)")

	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) {
	config := &DecryptConfig{
		Target:      args[0],
		SearchRoots: locateRoots,
		SkipHome:    locateNoHome,
		Verbose:     verbose,
	}

	s, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	applySettings(config, s)

	target, err := filepath.Abs(config.Target)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	roots := workspace.SearchRoots(filepath.Dir(target), config.SearchRoots)
	entries := locateEntries(newVault(config, os.Stderr), target, roots)

	if len(entries) == 0 {
		fmt.Println("No configuration found.")
		return
	}

	switch locateOutput {
	case "json":
		err = printLocateJSON(os.Stdout, entries)
	case "yaml":
		err = printLocateYAML(os.Stdout, entries)
	default:
		printLocateTable(os.Stdout, entries)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// locateEntries evaluates every configuration source for target in the
// order decrypt tries them.
func locateEntries(v *vault.Vault, target string, roots []string) []LocateEntry {
	var entries []LocateEntry
	selected := false

	add := func(e LocateEntry) {
		e.Priority = len(entries) + 1
		entries = append(entries, e)
	}

	if pw, ok := v.Resolver.Override(); ok {
		add(LocateEntry{
			ConfigurationFile: vault.EnvConfigurationFile,
			PasswordFile:      pw,
			PasswordFileFound: fileExists(pw),
			Status:            statusSelected,
		})
		selected = true
	}

	for _, c := range v.Locator.Locate(filepath.Dir(target), roots) {
		e := LocateEntry{ConfigurationFile: c.Path}
		pw, ok, err := v.Resolver.Resolve(c)
		switch {
		case err != nil:
			e.Status = statusUnreadable
			e.Error = err.Error()
		case !ok:
			e.Status = statusNoKey
		default:
			e.PasswordFile = pw
			e.PasswordFileFound = fileExists(pw)
			e.Status = statusSelected
			if selected {
				e.Status = statusShadowed
			}
			selected = true
		}
		add(e)
	}

	return entries
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func printLocateTable(out io.Writer, entries []LocateEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCONFIGURATION\tPASSWORD FILE\tSTATUS")
	fmt.Fprintln(w, "-\t-------------\t-------------\t------")

	for _, e := range entries {
		pw := e.PasswordFile
		if pw != "" && !e.PasswordFileFound {
			pw += " (missing)"
		}
		if pw == "" {
			pw = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Priority, e.ConfigurationFile, pw, e.Status)
	}

	w.Flush()
}

func printLocateJSON(out io.Writer, entries []LocateEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func printLocateYAML(out io.Writer, entries []LocateEntry) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}
	return enc.Close()
}
