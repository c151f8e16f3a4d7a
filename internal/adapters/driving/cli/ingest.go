package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var (
	ingestRecursive bool
	ingestJSON      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Load the knowledge base into the vector store",
	Long: `Loads .md, .txt and .pdf files, splits them into overlapping chunks and
stores their embeddings.

The first directory below the knowledge base root becomes each document's
category (behavioral, technical, system_design, company_info, general).
Without an argument the configured knowledge directory is used. A file path
ingests just that file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-ingest knowledge base files as they change",
	Long: `Watches the knowledge base directory and re-ingests each supported file
after it is created or modified. Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestRecursive, "recursive", "r", true, "descend into subdirectories")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(watchCmd)
}

// resolveKnowledgePath points the knowledge base at path before services
// are built, so categories are derived relative to it.
func resolveKnowledgePath(args []string) (string, error) {
	if len(args) == 0 {
		return appConfig.Knowledge.Dir, nil
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", args[0], err)
	}
	return path, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	path, err := resolveKnowledgePath(args)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if info.IsDir() && ingestService == nil {
		appConfig.Knowledge.Dir = path
	}
	if !cmd.Flags().Changed("recursive") {
		ingestRecursive = appConfig.Knowledge.Recursive
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var report domain.IngestReport
	if info.IsDir() {
		report, err = ingestService.IngestDirectory(cmd.Context(), path, ingestRecursive)
	} else {
		report, err = ingestService.IngestFile(cmd.Context(), path)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Ingested %d document(s) into %d chunk(s) in %s\n",
		report.Documents, report.Chunks, report.Duration.Round(time.Millisecond))
	if report.Documents == 0 {
		cmd.Println(styled(cmd, mutedStyle, "No supported files found (.md, .txt, .pdf)."))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := resolveKnowledgePath(args)
	if err != nil {
		return err
	}
	if ingestService == nil {
		appConfig.Knowledge.Dir = dir
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	return ingestService.Watch(cmd.Context(), dir, func(path string, report domain.IngestReport) {
		cmd.Printf("  %s %s: %d chunk(s)\n", styled(cmd, goodStyle, "↻"), path, report.Chunks)
	})
}
