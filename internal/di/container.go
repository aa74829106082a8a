package di

import (
	"context"
	"fmt"

	"control-agent/internal/application/port/input"
	"control-agent/internal/application/port/output"
	"control-agent/internal/application/usecase"
	"control-agent/internal/config"
	"control-agent/internal/infrastructure/browser/rod"
	"control-agent/internal/infrastructure/llm/openai"
	"control-agent/internal/infrastructure/logger"
	"control-agent/internal/infrastructure/terminal"
)

type Container struct {
	Terminal   output.TerminalPort
	Browser    output.BrowserPort
	Completion output.CompletionPort
	Logger     output.LoggerPort
	Agent      input.Agent
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	term := terminal.NewExecutor(cfg.Terminal.WorkingDir, log.WithField("component", "terminal"))

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Browser.Headless
	browserCfg.NoSandbox = cfg.Browser.NoSandbox
	browserCfg.FindTimeout = cfg.Browser.FindTimeout
	browserCfg.NavTimeout = cfg.Browser.NavigationTimeout
	browser, err := rod.NewSession(ctx, browserCfg, log.WithField("component", "browser"))
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	completion := openai.NewAdapter(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	}, log.WithField("component", "completion"))

	agent := usecase.NewAgent(term, browser, completion, log.WithField("component", "agent"), cfg.Terminal.CommandTimeout)

	return &Container{
		Terminal:   term,
		Browser:    browser,
		Completion: completion,
		Logger:     log,
		Agent:      agent,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
