package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check assessment files without storing them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			a, err := question.LoadFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "%s: ok (%s, %d questions)\n", path, a.ID, len(a.Questions))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(args))
		}
		return nil
	},
}
