package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/terraincognita07/dailypulse/internal/cli"
	"github.com/terraincognita07/dailypulse/internal/config"
	"github.com/terraincognita07/dailypulse/internal/logger"
)

var version = "dev"

type CLI struct {
	Version kong.VersionFlag
	EnvFile string `help:"Dotenv file loaded before the environment." type:"path" default:".env" name:"env-file"`

	Serve         cli.ServeCmd         `cmd:"" help:"Run the HTTP server." default:"1"`
	ResetPassword cli.ResetPasswordCmd `cmd:"" help:"Reset a user's password."`
	Export        cli.ExportCmd        `cmd:"" help:"Export a user's entries as CSV."`
}

func main() {
	var commands CLI
	ctx := kong.Parse(&commands,
		kong.Name("dailypulse"),
		kong.Description("Daily wellness tracker: sleep, water, steps and activity with insights"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := run(ctx, commands.EnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *kong.Context, envFile string) error {
	appCtx, err := newAppContext(envFile)
	if err != nil {
		return err
	}
	defer logger.Sync(appCtx.Logger)

	return ctx.Run(appCtx)
}

func newAppContext(envFile string) (*cli.Context, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	return &cli.Context{
		Config: cfg,
		Logger: log,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
	}, nil
}
