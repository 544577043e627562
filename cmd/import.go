package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subodh556/AI-Teacher-sub000/internal/assess"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Validate assessment files and store them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		svc := assess.New(e.store, assess.Options{Logger: e.log})
		for _, path := range args {
			a, err := question.LoadFile(path)
			if err != nil {
				return err
			}
			if err := svc.Import(cmd.Context(), a); err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %q (%d questions)\n", path, a.ID, len(a.Questions))
		}
		return nil
	},
}
