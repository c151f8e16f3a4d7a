package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var (
	retrieveCategory string
	retrieveK        int
	retrieveJSON     bool
	retrieveContext  bool

	questionsType  string
	questionsTopic string
	questionsCount int
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search the knowledge base",
	Long: `Finds the knowledge base passages most similar to the query.
Passages below the relevance threshold are dropped.

Use --context to print the passages the way they are handed to the interviewer.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List sample questions from the knowledge base",
	Long: `Extracts example interview questions from passages related to the
interview type and optional topic.`,
	Args: cobra.NoArgs,
	RunE: runQuestions,
}

func init() {
	retrieveCmd.Flags().StringVarP(&retrieveCategory, "category", "c", "", "restrict to a category")
	retrieveCmd.Flags().IntVarP(&retrieveK, "limit", "k", 0, "maximum passages (default from config)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output passages as JSON")
	retrieveCmd.Flags().BoolVar(&retrieveContext, "context", false, "print formatted interviewer context")
	rootCmd.AddCommand(retrieveCmd)

	questionsCmd.Flags().StringVarP(&questionsType, "type", "t", string(domain.DefaultInterviewType),
		"interview type (behavioral, technical, system_design)")
	questionsCmd.Flags().StringVar(&questionsTopic, "topic", "", "focus topic")
	questionsCmd.Flags().IntVarP(&questionsCount, "count", "n", 5, "maximum questions")
	rootCmd.AddCommand(questionsCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if retriever == nil {
		return errors.New("retriever not configured")
	}

	docs, err := retriever.Retrieve(cmd.Context(), args[0], retrieveCategory, retrieveK)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	switch {
	case retrieveJSON:
		return printJSON(cmd, docs)
	case retrieveContext:
		cmd.Println(retriever.FormatContext(docs))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No relevant passages found.")
		return nil
	}

	cmd.Println("Passages:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  [%d] %s %s\n", i+1, docs[i].Source(),
			styled(cmd, mutedStyle, "("+docs[i].Category()+")"))
		cmd.Printf("      %s\n", truncate(docs[i].Content, 160))
		cmd.Println()
	}
	return nil
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	interviewType, ok := domain.ParseInterviewType(questionsType)
	if !ok {
		return fmt.Errorf("%w: unknown interview type %q", domain.ErrInvalidInput, questionsType)
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if retriever == nil {
		return errors.New("retriever not configured")
	}

	questions := retriever.SampleQuestions(cmd.Context(), interviewType, questionsTopic, questionsCount)
	if len(questions) == 0 {
		cmd.Println("No sample questions found.")
		return nil
	}

	cmd.Println(styled(cmd, headingStyle, interviewType.DisplayName()+" questions:"))
	for i, q := range questions {
		cmd.Printf("  %d. %s\n", i+1, q)
	}
	return nil
}
