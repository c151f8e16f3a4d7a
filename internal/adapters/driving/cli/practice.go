package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

var practiceCandidate string

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a mock interview in the terminal",
	Long: `Launches an interactive practice session. Pick an interview type, answer
each question in text and get a score with feedback after every answer.
End the session for a summary of strengths, weaknesses and score trend.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Start / Submit answer
  Ctrl+N   - Skip to the next question
  Ctrl+E   - End the session
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().StringVar(&practiceCandidate, "candidate", "", "candidate background shared with the interviewer")
	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("practice aborted: %v", r)
		}
	}()

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Coach: coach, Evaluator: evaluator})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).WithCandidateInfo(practiceCandidate)

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
