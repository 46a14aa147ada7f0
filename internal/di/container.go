package di

import (
	"fmt"

	"docproc/internal/application/port/output"
	"docproc/internal/application/usecase"
	"docproc/internal/infrastructure/fs"
	"docproc/internal/infrastructure/llm/openrouter"
	"docproc/internal/infrastructure/logger"
	"docproc/internal/infrastructure/userinteraction"
)

type Container struct {
	Logger  output.LoggerPort
	LLM     output.LLMPort
	Files   output.FileStorePort
	Batch   *usecase.BatchRunner
	Console *userinteraction.Console
}

type Config struct {
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterURL    string
	LogLevel         string
	LogHTTP          bool
	RunName          string
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.RunName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	if cfg.OpenRouterURL != "" {
		llmCfg.BaseURL = cfg.OpenRouterURL
	}
	if cfg.LogHTTP {
		llmCfg.Logger = log
	}
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	files := fs.NewStore()
	verifier := usecase.NewVerifier(llm, log)
	processor := usecase.NewProcessor(llm, files, verifier, log, usecase.DefaultProcessorConfig())
	batch := usecase.NewBatchRunner(processor, files, log)

	return &Container{
		Logger:  log,
		LLM:     llm,
		Files:   files,
		Batch:   batch,
		Console: userinteraction.NewConsole(files),
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
