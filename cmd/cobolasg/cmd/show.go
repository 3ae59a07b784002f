package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cobol85/cobolasg/internal/asg"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Build one file's ASG and pretty-print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("need to specify argument <file>")
		}

		fc, err := loadFileConfig()
		if err != nil {
			return err
		}
		cfg := copybookConfig(fc)

		fsys := os.DirFS(directory)
		program, _, err := asg.BuildFile(fsys, args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Println(asg.Dump(program.Root))
		for _, d := range program.Diagnostics {
			fmt.Fprintln(os.Stderr, d)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
