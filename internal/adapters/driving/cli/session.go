package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var (
	sessionLimit int
	sessionJSON  bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Review past practice sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session summary and its scores",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

func init() {
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "maximum sessions to list")
	sessionCmd.PersistentFlags().BoolVar(&sessionJSON, "json", false, "output as JSON")
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if evaluator == nil {
		return errors.New("evaluator not configured")
	}

	sessions, err := evaluator.ListSessions(cmd.Context(), sessionLimit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if sessionJSON {
		return printJSON(cmd, sessions)
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions recorded yet.")
		return nil
	}

	cmd.Printf("%-36s  %-14s  %-16s  %8s  %7s\n", "SESSION", "TYPE", "STARTED", "ANSWERED", "AVERAGE")
	for i := range sessions {
		s := &sessions[i]
		status := ""
		if !s.Ended() {
			status = " " + styled(cmd, mutedStyle, "(open)")
		}
		cmd.Printf("%-36s  %-14s  %-16s  %8d  %7.1f%s\n",
			s.SessionID, s.InterviewType, s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.QuestionsAnswered, s.AverageScore, status)
	}
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if evaluator == nil {
		return errors.New("evaluator not configured")
	}

	metrics, err := evaluator.LoadSession(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("session %s: %w", args[0], err)
	}

	if sessionJSON {
		return printJSON(cmd, struct {
			Metrics *domain.SessionMetrics `json:"metrics"`
			Summary domain.SessionSummary  `json:"summary"`
		}{metrics, metrics.Summary()})
	}

	printSummary(cmd, metrics.Summary())
	if len(metrics.Scores) > 0 {
		cmd.Println()
		cmd.Println(styled(cmd, headingStyle, "Scores"))
		for i, score := range metrics.Scores {
			cmd.Printf("  %d. %s\n", i+1, styled(cmd, scoreStyle(score.Overall), fmt.Sprintf("%d/10", score.Overall)))
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, s domain.SessionSummary) {
	cmd.Println(styled(cmd, headingStyle, "Session "+s.SessionID))
	cmd.Printf("  Interview:  %s\n", s.InterviewType.DisplayName())
	cmd.Printf("  Duration:   %.1f minutes\n", s.DurationMinutes)
	cmd.Printf("  Questions:  %d\n", s.QuestionsAnswered)
	cmd.Printf("  Average:    %.1f / 10\n", s.AverageScore)
	cmd.Printf("  Trend:      %s\n", strings.ReplaceAll(string(s.ScoreTrend), "_", " "))
	if len(s.TopStrengths) > 0 {
		cmd.Println("  Top strengths:")
		for _, item := range s.TopStrengths {
			cmd.Printf("    + %s\n", item)
		}
	}
	if len(s.AreasToImprove) > 0 {
		cmd.Println("  Areas to improve:")
		for _, item := range s.AreasToImprove {
			cmd.Printf("    - %s\n", item)
		}
	}
}
