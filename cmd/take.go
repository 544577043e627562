package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/assess"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/tui"
)

var takeCmd = &cobra.Command{
	Use:   "take <assessment-file|assessment-id>",
	Short: "Take an assessment in the terminal",
	Long: "Take an assessment in the terminal. A file argument is imported first; " +
		"anything else is looked up as a stored assessment id.",
	Args: cobra.ExactArgs(1),
	RunE: runTake,
}

func init() {
	takeCmd.Flags().StringP("user", "u", "", "Learner id (default: $USER)")
	takeCmd.Flags().StringSlice("areas", nil, "Restrict adaptive selection to these knowledge areas")
	takeCmd.Flags().Duration("time-limit", 0, "Override the assessment's time limit, e.g. 15m")
}

func runTake(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := assess.New(e.store, assess.Options{Logger: e.log, Range: e.cfg.Engine.Range()})
	// A session still live when the runner exits is ended and recorded.
	defer svc.Shutdown()

	id, err := resolveAssessment(cmd, svc, args[0])
	if err != nil {
		return err
	}
	info, err := svc.Assessment(ctx, id)
	if err != nil {
		return fmt.Errorf("load assessment: %w", err)
	}

	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		user = defaultUser()
	}
	areas, _ := cmd.Flags().GetStringSlice("areas")
	limit, _ := cmd.Flags().GetDuration("time-limit")

	snap, err := svc.Start(ctx, assess.StartRequest{
		AssessmentID: id,
		UserID:       user,
		Areas:        areas,
		TimeLimit:    limit,
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	e.log.Info("session started", zap.String("session_id", snap.ID), zap.String("user_id", user))

	m, err := tui.New(ctx, svc, snap.ID, info.Title)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run assessment: %w", err)
	}

	if rep := m.Report(); rep != nil {
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderReport(rep, 80))
	}
	return nil
}

// resolveAssessment imports arg when it names a file and returns the
// assessment id to run.
func resolveAssessment(cmd *cobra.Command, svc *assess.Service, arg string) (string, error) {
	fi, err := os.Stat(arg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return arg, nil
	case err != nil:
		return "", err
	case fi.IsDir():
		return "", fmt.Errorf("%s is a directory", arg)
	}

	a, err := question.LoadFile(arg)
	if err != nil {
		return "", err
	}
	if err := svc.Import(cmd.Context(), a); err != nil {
		return "", fmt.Errorf("import %s: %w", arg, err)
	}
	return a.ID, nil
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
