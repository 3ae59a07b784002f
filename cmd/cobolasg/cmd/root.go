package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "cobolasg",
		Short:        "cobolasg",
		SilenceUsage: true,
		Long:         `Builds Abstract Semantic Graphs from COBOL-85 source trees.`,
	}

	directory   string
	searchDirs  []string
	extensions  []string
	maxDepth    int
	debugFormat bool

	logger = logrus.StandardLogger()
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "path to directory/subtree scanned for COBOL source")
	rootCmd.PersistentFlags().StringSliceVar(&searchDirs, "copybook-dir", []string{"."}, "copybook search directories, checked in order")
	rootCmd.PersistentFlags().StringSliceVar(&extensions, "ext", []string{".cpy", ".cbl", ".CPY", ".CBL"}, "allowed copybook/source file extensions")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-copy-depth", 50, "maximum COPY expansion depth before aborting")
	rootCmd.PersistentFlags().BoolVar(&debugFormat, "with-debugging-mode", false, "treat 'D' indicator lines as live code instead of comments")
	return rootCmd.Execute()
}

func init() {
}
