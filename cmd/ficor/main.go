package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ficor/internal"
	pkgconfig "github.com/starford/ficor/pkg/config"
)

// run loads the configuration, applies command-line overrides, and hands
// req to the application.
func run(ctx context.Context, cmd *cli.Command, req *internal.Request) error {
	cfg := internal.NewDefaultConfig()
	configPath := cmd.String("config")

	load := pkgconfig.LoadOptional[internal.Config]
	if cmd.IsSet("config") {
		load = pkgconfig.Load[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.IsSet("file") {
		cfg.Store.Path = cmd.String("file")
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return fmt.Errorf("failed to parse log level: %w", err)
		}
	}

	logger := internal.NewLogger(cfg.App)
	slog.SetDefault(logger)

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithRequest(req),
		internal.WithLogger(logger),
	}

	return internal.Run(ctx, opts...)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:     "ficor",
		Usage:    "Simple file decorator tool: attach info and tags to file paths",
		Commands: commands(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "ficor.yaml",
				Value:       "ficor.yaml",
				Sources:     cli.EnvVars("FICOR_CONFIG"),
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "Path to the store file",
				DefaultText: ".ficor",
				Sources:     cli.EnvVars("FICOR_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Diagnostic log level (debug, info, warn, error)",
				Sources: cli.EnvVars("FICOR_LOG_LEVEL"),
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("ficor failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
