package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/homepage/internal"
	"github.com/starford/homepage/internal/mcpserver"
	"github.com/starford/homepage/internal/render"
	"github.com/starford/homepage/internal/sorting"
	pkgconfig "github.com/starford/homepage/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func books(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mode := sorting.Mode(cmd.String("sort"))
	if !mode.Valid() {
		return fmt.Errorf("unknown sort mode %q (want one of %v)", mode, sorting.Modes())
	}

	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
	lib, _, _, closeLib, err := internal.OpenLibrary(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLib()

	records, err := lib.Books(ctx, mode)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Reading list (%s)", sorting.Label(mode))
	_, err = fmt.Fprint(os.Stdout, render.BookTable(title, records, render.DefaultTerminalStyles()))
	return err
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
	lib, _, store, closeLib, err := internal.OpenLibrary(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLib()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(lib, store).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "homepage",
		Usage:  "Personal homepage with a sortable reading list, inspiration links and a map",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the homepage (default)",
				Action: run,
			},
			{
				Name:   "books",
				Usage:  "Print the reading list as a table",
				Action: books,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort mode: rating-desc, date-desc or rating-asc",
						Value:   string(sorting.Default),
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
