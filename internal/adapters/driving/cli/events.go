package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/events/natsbus"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var (
	eventsURL     string
	eventsSubject string
	eventsCount   int
	eventsJSON    bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Session event commands",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print session summaries as sessions end",
	Long: `Subscribes to the NATS subject that receives a summary whenever a practice
session ends and prints each one. Runs until interrupted or until --count
events have arrived.`,
	Args: cobra.NoArgs,
	RunE: runEventsTail,
}

func init() {
	eventsTailCmd.Flags().StringVar(&eventsURL, "url", "", "NATS server URL (default from config)")
	eventsTailCmd.Flags().StringVar(&eventsSubject, "subject", "", "subject to subscribe to (default from config)")
	eventsTailCmd.Flags().IntVarP(&eventsCount, "count", "n", 0, "exit after this many events (0 = no limit)")
	eventsTailCmd.Flags().BoolVar(&eventsJSON, "json", false, "print events as JSON")
	eventsCmd.AddCommand(eventsTailCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsTail(cmd *cobra.Command, _ []string) error {
	url, subject := eventsURL, eventsSubject
	if url == "" {
		url = appConfig.NATS.URL
	}
	if subject == "" {
		subject = appConfig.NATS.Subject
	}
	if url == "" {
		return fmt.Errorf("%w: NATS_URL is not set", domain.ErrMissingConfig)
	}

	nc, err := nats.Connect(url, nats.Name("interview-pilot-tail"))
	if err != nil {
		return fmt.Errorf("nats: connect %s: %w", url, err)
	}
	defer nc.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var (
		mu   sync.Mutex
		seen int
	)
	sub, err := natsbus.SubscribeSessionEnded(nc, subject, func(_ context.Context, s domain.SessionSummary) {
		mu.Lock()
		defer mu.Unlock()
		if eventsJSON {
			_ = printJSON(cmd, s)
		} else {
			cmd.Printf("%s  %-14s  %d answered  avg %.1f  %s\n",
				s.SessionID, s.InterviewType, s.QuestionsAnswered, s.AverageScore, s.ScoreTrend)
		}
		seen++
		if eventsCount > 0 && seen >= eventsCount {
			cancel()
		}
	})
	if err != nil {
		return fmt.Errorf("nats: subscribe %s: %w", subject, err)
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		return fmt.Errorf("nats: flush: %w", err)
	}

	cmd.PrintErrf("Listening on %s (%s)\n", subject, url)
	<-ctx.Done()
	return nil
}
