package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	collectionYes  bool
	collectionJSON bool
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Inspect or clear the knowledge base collection",
}

var collectionStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the collection name, chunk count and location",
	Args:  cobra.NoArgs,
	RunE:  runCollectionStats,
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the configured collection",
	Args:  cobra.NoArgs,
	RunE:  runCollectionDelete,
}

var collectionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every collection in the vector store",
	Args:  cobra.NoArgs,
	RunE:  runCollectionReset,
}

func init() {
	collectionStatsCmd.Flags().BoolVar(&collectionJSON, "json", false, "output as JSON")
	collectionDeleteCmd.Flags().BoolVarP(&collectionYes, "yes", "y", false, "skip confirmation")
	collectionResetCmd.Flags().BoolVarP(&collectionYes, "yes", "y", false, "skip confirmation")
	collectionCmd.AddCommand(collectionStatsCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	collectionCmd.AddCommand(collectionResetCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	stats, err := vectorStore.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("collection stats: %w", err)
	}

	if collectionJSON {
		return printJSON(cmd, stats)
	}
	cmd.Printf("Collection: %s\n", stats.Name)
	cmd.Printf("Chunks:     %d\n", stats.Count)
	if stats.PersistDirectory != "" {
		cmd.Printf("Location:   %s\n", stats.PersistDirectory)
	}
	return nil
}

func runCollectionDelete(cmd *cobra.Command, _ []string) error {
	if !collectionYes && !confirm(cmd, "Delete the knowledge base collection?") {
		cmd.Println("Cancelled.")
		return nil
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	if err := vectorStore.DeleteCollection(cmd.Context()); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	cmd.Println("Collection deleted. Run 'pilot ingest' to rebuild it.")
	return nil
}

func runCollectionReset(cmd *cobra.Command, _ []string) error {
	if !collectionYes && !confirm(cmd, "Delete ALL collections in the vector store?") {
		cmd.Println("Cancelled.")
		return nil
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	if err := vectorStore.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("resetting vector store: %w", err)
	}
	cmd.Println("Vector store reset.")
	return nil
}
