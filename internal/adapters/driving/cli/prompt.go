package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var (
	promptType       string
	promptContext    string
	promptCandidate  string
	promptEvaluation bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print an interviewer or evaluation prompt",
	Long: `Renders the system prompt the interviewer receives for an interview type,
with optional knowledge base context and candidate background.

Templates are read from the prompts directory under the data directory and
can be edited there.`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().StringVarP(&promptType, "type", "t", string(domain.DefaultInterviewType),
		"interview type (behavioral, technical, system_design)")
	promptCmd.Flags().StringVar(&promptContext, "context", "", "relevant knowledge base context")
	promptCmd.Flags().StringVar(&promptCandidate, "candidate", "", "candidate background")
	promptCmd.Flags().BoolVar(&promptEvaluation, "evaluation", false, "print the evaluation prompt instead")
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	if err := ensurePrompts(); err != nil {
		return err
	}
	if prompts == nil {
		return errors.New("prompt assembler not configured")
	}

	if promptEvaluation {
		cmd.Println(prompts.EvaluationPrompt())
		return nil
	}

	interviewType, ok := domain.ParseInterviewType(promptType)
	if !ok {
		return fmt.Errorf("%w: unknown interview type %q", domain.ErrInvalidInput, promptType)
	}
	cmd.Println(prompts.SystemPrompt(interviewType, promptContext, promptCandidate))
	return nil
}
