package cmd

import (
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/cobol85/cobolasg/internal/copybook"
	"github.com/cobol85/cobolasg/internal/diagsink"
	"github.com/cobol85/cobolasg/internal/srcformat"
)

// FileConfig is the optional cobolasg.yaml in the scanned directory: a
// YAML sidecar read once per invocation.
type FileConfig struct {
	CopybookDirs []string `yaml:"copybook_dirs"`
	CopybookExts []string `yaml:"copybook_extensions"`
	MaxCopyDepth int `yaml:"max_copy_depth"`
	WithDebuggingMode bool `yaml:"with_debugging_mode"`
	Sink *diagsink.Config `yaml:"sink"`
}

// loadFileConfig reads cobolasg.yaml from directory if present; a missing
// file is not an error, since every setting also has a command-line flag
// default (config is optional).
func loadFileConfig() (FileConfig, error) {
	var fc FileConfig
	configPath := path.Join(directory, "cobolasg.yaml")
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// copybookConfig merges command-line flags with any cobolasg.yaml
// overrides into the Config the preprocessor actually runs with.
func copybookConfig(fc FileConfig) copybook.Config {
	cfg := copybook.DefaultConfig()
	cfg.Format = srcformat.FIXED
	cfg.WithDebuggingMode = debugFormat || fc.WithDebuggingMode

	if len(fc.CopybookDirs) > 0 {
		cfg.SearchDirs = fc.CopybookDirs
	} else if len(searchDirs) > 0 {
		cfg.SearchDirs = searchDirs
	}
	if len(fc.CopybookExts) > 0 {
		cfg.Extensions = fc.CopybookExts
	} else if len(extensions) > 0 {
		cfg.Extensions = extensions
	}
	if fc.MaxCopyDepth > 0 {
		cfg.MaxDepth = fc.MaxCopyDepth
	} else if maxDepth > 0 {
		cfg.MaxDepth = maxDepth
	}
	return cfg
}
