package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"gitlab.com/codepad.net/internal/config"
	logger2 "gitlab.com/codepad.net/internal/global/logger"
)

func main() {
	if err := config.LoadOptionalEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "codepad",
		Usage: "run code and custom test suites against a Judge0 compatible executor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "zap log level",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger2.SetLevel(cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCommand(),
			testCommand(),
			historyCommand(),
			languagesCommand(),
		},
	}

	err := app.Run(ctx, os.Args)
	logger2.Logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, failColor.Sprint("error:"), err)
		os.Exit(1)
	}
}
