// Package app wires adapters and core services into the service graph
// used by the command-line interface.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/campusnotice/noticeagent/internal/adapters/driven/ai"
	"github.com/campusnotice/noticeagent/internal/adapters/driven/config/file"
	"github.com/campusnotice/noticeagent/internal/adapters/driven/embedding/cache"
	"github.com/campusnotice/noticeagent/internal/adapters/driven/lock"
	"github.com/campusnotice/noticeagent/internal/adapters/driven/storage/memory"
	"github.com/campusnotice/noticeagent/internal/adapters/driven/storage/pgvector"
	"github.com/campusnotice/noticeagent/internal/adapters/driven/storage/sqlite"
	"github.com/campusnotice/noticeagent/internal/adapters/driving/cli"
	"github.com/campusnotice/noticeagent/internal/connectors/filesystem"
	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/core/services"
	"github.com/campusnotice/noticeagent/internal/logger"
	"github.com/campusnotice/noticeagent/internal/normalisers"
	"github.com/campusnotice/noticeagent/internal/normalisers/markdown"
	"github.com/campusnotice/noticeagent/internal/normalisers/pdf"
	"github.com/campusnotice/noticeagent/internal/normalisers/plaintext"
	"github.com/campusnotice/noticeagent/internal/postprocessors"
)

// LogFile is the rotated log file inside the configuration directory.
const LogFile = "logs/noticeagent.log"

// EnvFile is loaded from the working directory and the configuration directory.
const EnvFile = ".env"

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c *closers) add(fn func() error) {
	*c = append(*c, fn)
}

func (c closers) close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Bootstrap builds the services a command needs. Settings are always
// available; the full graph is built only when opts.Core is set, and an
// unreachable embedding provider is then fatal. A missing completion
// service is not: answers explain the problem instead.
func Bootstrap(ctx context.Context, opts cli.BootstrapOptions) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	logger.SetFile(filepath.Join(configDir, LogFile))

	baseStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	configStore, err := file.NewEnvStore(baseStore, EnvFile, filepath.Join(configDir, EnvFile))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	out := &cli.Services{Settings: settingsService}
	if !opts.Core {
		return out, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", baseStore.Path(), err)
	}

	var res closers
	built, err := buildCore(ctx, configDir, settings, &res)
	if err != nil {
		if cerr := res.close(); cerr != nil {
			logger.Warn("cleanup after failed start: %v", cerr)
		}
		return nil, err
	}

	built.Settings = settingsService
	built.Close = res.close
	return built, nil
}

//nolint:funlen // Linear wiring of the service graph
func buildCore(ctx context.Context, configDir string, settings *domain.AppSettings, res *closers) (*cli.Services, error) {
	provider, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}
	embedder := cache.New(provider, cache.DefaultTTL)
	res.add(embedder.Close)
	logger.Debug("Embeddings: %s (%s)", settings.Embedding.Provider.DisplayName(), embedder.ModelName())

	store, err := sqlite.NewStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	res.add(store.Close)

	index, err := openIndex(ctx, settings, store, embedder)
	if err != nil {
		return nil, err
	}
	res.add(index.Close)

	llm, llmErr := ai.CreateLLMService(&settings.LLM)
	if llmErr != nil {
		logger.Warn("Completion service unavailable: %v", llmErr)
	} else {
		res.add(llm.Close)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, err
	}

	pipeline, err := postprocessors.BuildPipeline(postprocessors.NewDefaultRegistry(), settings.Pipeline)
	if err != nil {
		return nil, err
	}

	connector := filesystem.New(settings.Sync.DataDir)
	res.add(connector.Close)

	syncLock, err := lock.New(settings.Sync.DataDir)
	if err != nil {
		return nil, err
	}

	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("%v; PDF notices will be skipped.\n%s", err, pdf.InstallInstructions())
	}
	registry := normalisers.NewRegistry(pdf.New(), plaintext.New(), markdown.New())

	syncOrch := services.NewSyncOrchestrator(
		connector,
		registry,
		pipeline,
		embedder,
		index,
		services.WithBatchSize(settings.Embedding.BatchSize),
		services.WithSyncLock(syncLock),
		services.WithSyncHistory(store.SyncHistoryStore()),
	)

	retrieval := services.NewRetrievalService(embedder, index, settings.Retrieval.TopK)

	answer := services.NewAnswerService(retrieval, llm, prompts, services.AnswerConfig{
		Institution: settings.Assistant.Institution,
		DefaultYear: settings.Assistant.DefaultYear,
		Service:     settings.LLM.Provider.DisplayName(),
		Timeout:     settings.LLM.Timeout,
		Unavailable: llmErr,
	})

	engine := settings.LLM.Engine()
	schedulerConfig := domain.NewSchedulerConfig(settings.Sync)

	return &cli.Services{
		Sync:            syncOrch,
		Answer:          answer,
		Status:          services.NewStatusService(engine, embedder, index, syncOrch),
		Scheduler:       services.NewScheduler(schedulerConfig, store.SchedulerStore(), syncOrch, connector),
		SchedulerConfig: schedulerConfig,
		Server:          settings.Server,
		Engine:          engine,
	}, nil
}

// openIndex opens the configured vector index backend.
func openIndex(
	ctx context.Context,
	settings *domain.AppSettings,
	store *sqlite.Store,
	embedder driven.EmbeddingService,
) (driven.VectorIndex, error) {
	switch settings.Index.Backend {
	case domain.IndexBackendPgvector:
		return pgvector.Open(ctx, settings.Index.DSN)

	case domain.IndexBackendMemory:
		return memory.NewVectorIndex(), nil

	default:
		meta := driven.IndexMeta{Model: embedder.ModelName(), Dimensions: embedder.Dimensions()}
		index := memory.NewVectorIndex(
			memory.WithSnapshotStore(store.IndexSnapshotStore(), meta, string(domain.IndexBackendSQLite)),
		)
		if err := index.Restore(ctx); err != nil {
			logger.Warn("Starting with an empty index: %v", err)
		}
		return index, nil
	}
}
