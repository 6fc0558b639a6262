package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/linkshelf/internal"
	pkgconfig "github.com/starford/linkshelf/pkg/config"
)

// loadConfig reads the optional config file and applies global flag overrides.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.IsSet("vocabulary") {
		cfg.Vocabulary.Path = cmd.String("vocabulary")
	}
	if cmd.IsSet("entries") {
		cfg.Entries.Root = cmd.String("entries")
	}
	return cfg, nil
}

func compose(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("force") {
		cfg.Entries.Overwrite = true
	}
	return internal.RunCompose(ctx, internal.WithConfig(cfg))
}

func validate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("cycles") {
		cfg.Vocabulary.CheckCycles = true
	}
	return internal.RunValidate(ctx, cmd.Bool("watch"), internal.WithConfig(cfg))
}

func cacheImages(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("concurrency") {
		cfg.Images.Concurrency = int(cmd.Int("concurrency"))
		if err := cfg.Images.Validate(); err != nil {
			return fmt.Errorf("concurrency: %w", err)
		}
	}
	return internal.RunCacheImages(ctx, internal.WithConfig(cfg))
}

func tags(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunTags(ctx, internal.WithConfig(cfg))
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:           "linkshelf",
		Usage:          "Curate bookmarked links as Markdown files with a controlled tag vocabulary",
		DefaultCommand: "compose",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vocabulary",
				Usage:   "Path to the tag vocabulary (overrides vocabulary.path)",
				Sources: cli.EnvVars("LINKSHELF_VOCABULARY"),
			},
			&cli.StringFlag{
				Name:    "entries",
				Usage:   "Entries directory (overrides entries.root)",
				Sources: cli.EnvVars("LINKSHELF_ENTRIES"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "compose",
				Usage:  "Add a new entry from a URL",
				Action: compose,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing entry with the same name"},
				},
			},
			{
				Name:   "validate",
				Usage:  "Check that every parent named in the vocabulary exists",
				Action: validate,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "cycles", Usage: "Also report parent cycles"},
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "Re-check whenever the vocabulary file changes"},
				},
			},
			{
				Name:   "cache-images",
				Usage:  "Download each entry's image next to its file",
				Action: cacheImages,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "concurrency", Usage: "Number of images fetched at once"},
				},
			},
			{
				Name:   "tags",
				Usage:  "Print the tag vocabulary as a tree",
				Action: tags,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the linkshelf tools over MCP on stdio",
				Action: serveMCP,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
