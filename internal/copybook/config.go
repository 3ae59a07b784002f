package copybook

import "github.com/cobol85/cobolasg/internal/srcformat"

// Config holds the preprocessor's inputs: an ordered list of copybook
// directories, the allowed copybook file extensions, and the max expansion
// depth guard. The zero value is not useful; use DefaultConfig and
// override fields as needed, loaded from YAML and then poked at by the
// caller.
type Config struct {
	// SearchDirs is the ordered list of directories (relative to the root
	// of the FS passed to New) searched for copybook files. First match
	// on the case-insensitive stem wins.
	SearchDirs []string `yaml:"copybook_dirs"`

	// Extensions is the ordered list of filename extensions tried for a
	// given copybook name, case preserved as configured but matched
	// case-insensitively against the directory entry.
	Extensions []string `yaml:"copybook_extensions"`

	// MaxDepth guards against pathological (non-cyclic but very long)
	// COPY chains; cycles are caught independently by the expansion-stack
	// check regardless of this value.
	MaxDepth int `yaml:"max_copy_depth"`

	// Format is the column layout applied to the main source file. Each
	// copybook may declare its own format via a FormatOverride lookup
	// (by name); if absent, the copybook is normalized with this same
	// Format.
	Format srcformat.Format `yaml:"-"`

	// FormatOverride optionally assigns a distinct column layout to
	// specific copybook names (by upper-cased stem), for shops that mix
	// fixed-format programs with variable-format copybooks.
	FormatOverride map[string]srcformat.Format `yaml:"-"`

	// WithDebuggingMode mirrors srcformat.Options.WithDebuggingMode across
	// every file the preprocessor normalizes, main source and copybooks
	// alike.
	WithDebuggingMode bool `yaml:"with_debugging_mode"`
}

// DefaultConfig returns the conventional defaults: search only "." (the
// root of the FS given to New, not the directory of a source file that
// lies in a subdirectory of it), and the usual four copybook extensions.
func DefaultConfig() Config {
	return Config{
		SearchDirs: []string{"."},
		Extensions: []string{".cpy", ".cbl", ".CPY", ".CBL"},
		MaxDepth: 50,
		Format: srcformat.FIXED,
	}
}
