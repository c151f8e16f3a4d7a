package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/ai"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driven/watcher/fswatch"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
	"github.com/custodia-labs/interview-pilot/internal/core/services"
	"github.com/custodia-labs/interview-pilot/internal/loader"
	"github.com/custodia-labs/interview-pilot/internal/logger"
	"github.com/custodia-labs/interview-pilot/internal/postprocessors"
)

// Services used by commands. Tests assign them directly; otherwise they
// are built on first use from appConfig.
var (
	vectorStore   driving.VectorStore
	retriever     driving.ContextRetriever
	evaluator     driving.ResponseEvaluator
	prompts       driving.PromptAssembler
	coach         driving.Coach
	ingestService driving.IngestService

	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator

	closers []func()
)

var errConfigNotLoaded = errors.New("configuration not loaded")

// ensurePrompts builds the prompt assembler over the user prompt directory.
func ensurePrompts() error {
	if prompts != nil {
		return nil
	}
	if appConfig == nil {
		return errConfigNotLoaded
	}

	store, err := file.NewPromptStore(appConfig.PromptDir())
	if err != nil {
		return fmt.Errorf("prompt store: %w", err)
	}
	prompts = services.NewPromptAssembler(store)
	return nil
}

// ensureServices wires the knowledge base, evaluator and coach.
// Optional backends that fail to start are reported as warnings.
func ensureServices(ctx context.Context) error {
	if vectorStore != nil {
		return nil
	}
	if appConfig == nil {
		return errConfigNotLoaded
	}
	cfg := appConfig

	if err := ensurePrompts(); err != nil {
		return err
	}

	logger.Section("Initialising services")
	result, err := ai.Init(ctx, cfg)
	if err != nil {
		return err
	}
	closers = append(closers, result.Close)

	manager := services.NewVectorStoreManager(result.VectorIndex, result.EmbeddingService,
		services.WithCollection(cfg.Vector.Collection),
		services.WithBatchSize(cfg.Vector.BatchSize),
		services.WithRateLimit(cfg.OpenAI.RequestsPerSecond),
	)
	contextRetriever := services.NewContextRetriever(manager,
		services.WithDefaultK(cfg.Vector.DefaultK),
		services.WithThreshold(cfg.Vector.Threshold),
	)

	parser, err := services.NewEvaluationParser(cfg.Evaluation.Parser)
	if err != nil {
		return err
	}
	opts := []services.EvaluatorOption{
		services.WithEvaluationModel(cfg.Evaluation.Model),
		services.WithEvaluationMaxTokens(cfg.Evaluation.MaxTokens),
		services.WithEvaluationTemperature(cfg.Evaluation.Temperature),
		services.WithParser(parser),
		services.WithReferenceRetriever(contextRetriever),
		services.WithSessionStore(result.SessionStore),
	}
	if result.EventPublisher != nil {
		opts = append(opts, services.WithEventPublisher(result.EventPublisher))
	}
	responseEvaluator := services.NewResponseEvaluator(result.LLMService, prompts, opts...)

	pipeline, err := postprocessors.NewSemanticChunker(cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("chunker: %w", err)
	}
	var watcher driven.FileWatcher
	if w, err := fswatch.New(); err != nil {
		logger.Warn("file watching unavailable: %v", err)
	} else {
		watcher = w
		closers = append(closers, func() { w.Close() })
	}

	vectorStore = manager
	retriever = contextRetriever
	evaluator = responseEvaluator
	coach = services.NewCoach(contextRetriever, prompts, responseEvaluator)
	ingestService = services.NewIngestService(loader.New(cfg.Knowledge.Dir), pipeline, manager, watcher)

	logger.Debug("services ready: backend=%s collection=%s", cfg.Vector.Backend, manager.Collection())
	return nil
}

// ensureConfigStore opens the TOML file named by --config.
func ensureConfigStore() error {
	if configStore != nil {
		return nil
	}
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	configStore = store
	return nil
}

// ensureValidator builds the connectivity checker for doctor.
func ensureValidator() error {
	if aiValidator != nil {
		return nil
	}
	if appConfig == nil {
		return errConfigNotLoaded
	}
	aiValidator = ai.NewConfigValidator(appConfig)
	return nil
}

// closeServices releases resources in reverse order of creation.
func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
