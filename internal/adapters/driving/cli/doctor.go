package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/ai"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and service connectivity",
	Long: `Verifies credentials are present and that the embedding model, the
evaluation model and the vector backend are reachable.

Exits with an error when a required check fails. The evaluation model is
optional: without it every answer receives the default score.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type doctorCheck struct {
	name     string
	required bool
	run      func(context.Context) error
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if err := ensureValidator(); err != nil {
		return err
	}

	checks := []doctorCheck{
		{"credentials", false, func(context.Context) error { return appConfig.ValidateCredentials() }},
		{"embedding", true, aiValidator.ValidateEmbedding},
		{"evaluation model", false, aiValidator.ValidateLLM},
		{"vector index (" + appConfig.Vector.Backend + ")", true, aiValidator.ValidateVectorIndex},
	}

	failed := 0
	for _, c := range checks {
		err := c.run(cmd.Context())
		switch {
		case err == nil:
			cmd.Printf("  %s %s\n", styled(cmd, goodStyle, "✓"), c.name)
		case errors.Is(err, ai.ErrNotConfigured) && !c.required:
			cmd.Printf("  %s %s: %s\n", styled(cmd, fairStyle, "-"), c.name, styled(cmd, mutedStyle, "not configured"))
		case c.required:
			failed++
			cmd.Printf("  %s %s: %v\n", styled(cmd, poorStyle, "✗"), c.name, err)
		default:
			cmd.Printf("  %s %s: %v\n", styled(cmd, fairStyle, "!"), c.name, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d required check(s) failed", failed)
	}
	cmd.Println("All required checks passed.")
	return nil
}
