package cmd

// DecryptConfig holds configuration for the decrypt command
type DecryptConfig struct {
	// Target vault file; empty selects one interactively
	Target string

	// Search configuration
	SearchRoots []string
	ExcludeDirs []string
	SkipHome    bool

	// Decryption tool
	Tool string

	// Output configuration
	OutputFile string
	Force      bool

	// Mode control
	Interactive bool
	Verbose     bool
}
