package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	prepareSession    string
	prepareType       string
	prepareCandidate  string
	prepareMetadata   string
	prepareShowPrompt bool
	prepareJSON       bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Prepare an interview session for the voice runtime",
	Long: `Builds everything the voice interviewer needs for one room: the system
prompt with knowledge base context, seed questions and the greeting. An
evaluation session is opened under the returned session id.

The room metadata can be passed verbatim with --metadata, e.g.
  pilot prepare --metadata '{"interview_type":"technical","candidate_info":"Go developer"}'

Requires LIVEKIT_URL, LIVEKIT_API_KEY, LIVEKIT_API_SECRET and OPENAI_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().StringVar(&prepareSession, "session", "", "session id (generated when empty)")
	prepareCmd.Flags().StringVarP(&prepareType, "type", "t", "", "interview type (behavioral, technical, system_design)")
	prepareCmd.Flags().StringVar(&prepareCandidate, "candidate", "", "candidate background")
	prepareCmd.Flags().StringVar(&prepareMetadata, "metadata", "", "raw room metadata JSON (overrides --type and --candidate)")
	prepareCmd.Flags().BoolVar(&prepareShowPrompt, "show-prompt", false, "print the full system prompt")
	prepareCmd.Flags().BoolVar(&prepareJSON, "json", false, "output the plan as JSON")
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, _ []string) error {
	if err := appConfig.ValidateCredentials(); err != nil {
		return err
	}

	metadata := prepareMetadata
	if metadata == "" {
		raw, err := json.Marshal(map[string]string{
			"interview_type": prepareType,
			"candidate_info": prepareCandidate,
		})
		if err != nil {
			return fmt.Errorf("encoding room metadata: %w", err)
		}
		metadata = string(raw)
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if coach == nil {
		return errors.New("coach not configured")
	}

	plan, err := coach.Prepare(cmd.Context(), prepareSession, metadata)
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}

	if prepareJSON {
		return printJSON(cmd, plan)
	}

	cmd.Println(styled(cmd, headingStyle, plan.InterviewType.DisplayName()))
	cmd.Printf("Session:  %s\n", plan.SessionID)
	if plan.CandidateInfo != "" {
		cmd.Printf("Candidate: %s\n", plan.CandidateInfo)
	}
	cmd.Printf("Greeting: %s\n", plan.Greeting)
	if len(plan.SampleQuestions) > 0 {
		cmd.Println("Seed questions:")
		for i, q := range plan.SampleQuestions {
			cmd.Printf("  %d. %s\n", i+1, q)
		}
	}
	if prepareShowPrompt {
		cmd.Println()
		cmd.Println(plan.SystemPrompt)
	}
	return nil
}
