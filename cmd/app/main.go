package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/hogwarts/internal"
	pkgconfig "github.com/starford/hogwarts/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	cfg := internal.NewDefaultConfig()
	configPath, err := pkgconfig.LoadWithDefaults(cmd.String("config"), defaultConfigPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigPath(configPath),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: defaultConfigPath,
		Value:       defaultConfigPath,
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "hogwarts",
		Usage:   "Browse the wizarding world's characters, with paging, name search and house filters",
		Version: internal.Version,
		Action:  serve,
		Flags:   []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve the catalog as MCP tools over stdio",
				Action: serveMCP,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
