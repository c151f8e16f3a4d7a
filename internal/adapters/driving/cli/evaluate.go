package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var (
	evaluateQuestion string
	evaluateResponse string
	evaluateSession  string
	evaluateType     string
	evaluateJSON     bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score one answer to an interview question",
	Long: `Scores a candidate answer from 1 to 10 and lists strengths and areas to
improve.

With --session the score is recorded against an open session. Without it a
one-question session is started, scored and ended so the result is kept in
the session history.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateQuestion, "question", "q", "", "the interview question")
	evaluateCmd.Flags().StringVarP(&evaluateResponse, "response", "r", "", "the candidate's answer")
	evaluateCmd.Flags().StringVar(&evaluateSession, "session", "", "record against an open session")
	evaluateCmd.Flags().StringVarP(&evaluateType, "type", "t", string(domain.DefaultInterviewType),
		"interview type for a new session")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "output the score as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	if evaluateQuestion == "" || evaluateResponse == "" {
		return fmt.Errorf("%w: --question and --response are required", domain.ErrInvalidInput)
	}
	interviewType, ok := domain.ParseInterviewType(evaluateType)
	if !ok {
		return fmt.Errorf("%w: unknown interview type %q", domain.ErrInvalidInput, evaluateType)
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if evaluator == nil {
		return errors.New("evaluator not configured")
	}

	ctx := cmd.Context()
	sessionID := evaluateSession
	adHoc := sessionID == ""
	if adHoc {
		sessionID = uuid.NewString()
		evaluator.StartSession(ctx, sessionID, interviewType)
	}

	score := evaluator.EvaluateResponse(ctx, sessionID, evaluateQuestion, evaluateResponse)
	if adHoc {
		evaluator.EndSession(ctx, sessionID)
	}

	if evaluateJSON {
		return printJSON(cmd, score)
	}
	printScore(cmd, score)
	return nil
}

func printScore(cmd *cobra.Command, score domain.ResponseScore) {
	cmd.Printf("Score: %s\n", styled(cmd, scoreStyle(score.Overall), fmt.Sprintf("%d/10", score.Overall)))
	if len(score.Strengths) > 0 {
		cmd.Println("Strengths:")
		for _, s := range score.Strengths {
			cmd.Printf("  + %s\n", s)
		}
	}
	if len(score.Improvements) > 0 {
		cmd.Println("Improvements:")
		for _, s := range score.Improvements {
			cmd.Printf("  - %s\n", s)
		}
	}
}
