package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"gitlab.com/codepad.net/internal/adapter/judge0"
	"gitlab.com/codepad.net/internal/adapter/memory"
	"gitlab.com/codepad.net/internal/adapter/postgres"
	"gitlab.com/codepad.net/internal/adapter/postgres/historyrepository"
	"gitlab.com/codepad.net/internal/config"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/core/services/execution"
	"gitlab.com/codepad.net/internal/core/services/history"
	"gitlab.com/codepad.net/internal/domain"
	logger2 "gitlab.com/codepad.net/internal/global/logger"
	"gitlab.com/codepad.net/internal/static/errs"
	"gitlab.com/codepad.net/internal/suitefile"
)

// flags hold parsed state, so every command gets its own instances
func langFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "lang",
		Aliases: []string{"l"},
		Usage:   "Judge0 language id, defaults to EXECUTOR_LANGUAGE_ID",
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "source file to execute",
		Required: true,
	}
}

// app bundles the services a single CLI invocation needs
type app struct {
	cfg        *config.AppConfig
	execution  *execution.ExecutionService
	history    history.IHistoryService
	closeStore func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.NewSystemConfig()
	logger := logger2.Logger

	var repo secondary.HistoryRepository = memory.NewHistoryRepository()
	closeStore := func() {}
	if cfg.PostgresConfig.Enabled() {
		db, err := postgres.Open(ctx, cfg.PostgresConfig.Url)
		if err != nil {
			return nil, err
		}
		pgRepo := historyrepository.NewHistoryRepository(db, logger)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		repo = pgRepo
		closeStore = func() { _ = db.Close() }
	}

	historySvc := history.NewHistoryService(repo, logger)
	executor := judge0.NewClient(cfg.ExecutorConfig, logger)
	executionSvc := execution.NewExecutionService(
		executor,
		memory.NewRunStore(),
		historySvc,
		logger,
		cfg.RunSvcCfg,
		cfg.ExecutorConfig.LanguageID,
	)

	return &app{
		cfg:        cfg,
		execution:  executionSvc,
		history:    historySvc,
		closeStore: closeStore,
	}, nil
}

func (a *app) Close() {
	a.execution.Close()
	a.closeStore()
}

func (a *app) resolveLanguage(requested int) (int, error) {
	languageID, ok := a.cfg.ExecutorConfig.ResolveLanguage(requested)
	if !ok {
		return 0, fmt.Errorf("%w: %d", errs.ErrLanguageNotAllowed, requested)
	}
	return languageID, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "execute a source file once with empty stdin",
		Flags: []cli.Flag{fileFlag(), langFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			code, err := os.ReadFile(cmd.String("file"))
			if err != nil {
				return fmt.Errorf("failed to read source file: %w", err)
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			languageID, err := a.resolveLanguage(int(cmd.Int("lang")))
			if err != nil {
				return err
			}

			result, err := a.execution.RunOnce(ctx, execution.RunOnceRequest{
				SourceCode: string(code),
				LanguageID: languageID,
			})
			if err != nil {
				return err
			}

			printResult(cmd.Root().Writer, result)
			if result.Kind != domain.ResultStdout {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func testCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "run a source file against the cases of a TOML or YAML suite",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.StringFlag{
				Name:     "suite",
				Aliases:  []string{"s"},
				Usage:    "suite file (.toml, .yaml or .yml)",
				Required: true,
			},
			langFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			code, err := os.ReadFile(cmd.String("file"))
			if err != nil {
				return fmt.Errorf("failed to read source file: %w", err)
			}
			suite, err := suitefile.Load(cmd.String("suite"))
			if err != nil {
				return err
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			requested := suite.LanguageID
			if cmd.IsSet("lang") {
				requested = int(cmd.Int("lang"))
			}
			languageID, err := a.resolveLanguage(requested)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			state, err := a.execution.RunTestSuite(ctx, execution.SuiteRequest{
				SourceCode: string(code),
				LanguageID: languageID,
				TestCases:  suite.Cases,
				Observer: func(v domain.Verdict) {
					printVerdict(out, v)
				},
			})
			if err != nil {
				return err
			}

			printSummary(out, state)
			if state.Status == domain.RunStatusCancelled || state.Summary().Failed > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list previously executed snippets, oldest first",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.PostgresConfig.Enabled() {
				return fmt.Errorf("%w: DATABASE_URL is not set", errs.ErrHistoryUnavailable)
			}

			snippets, err := a.history.List(ctx)
			if err != nil {
				return err
			}
			printHistory(cmd.Root().Writer, snippets)
			return nil
		},
	}
}

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "list the language ids this installation accepts",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.NewExecutorConfig()
			for _, lang := range cfg.AllowedLanguages() {
				marker := " "
				if lang.ID == cfg.LanguageID {
					marker = "*"
				}
				fmt.Fprintf(cmd.Root().Writer, "%s %3d  %s\n", marker, lang.ID, lang.Name)
			}
			return nil
		},
	}
}
