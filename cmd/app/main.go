package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/corkboard/internal"
	"github.com/starford/corkboard/internal/client"
	"github.com/starford/corkboard/internal/render"
	"github.com/starford/corkboard/internal/viewport"
	pkgconfig "github.com/starford/corkboard/pkg/config"
)

const exampleConfig = "config/config.example.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, string, error) {
	configPath := cmd.String("config")
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(configPath, exampleConfig, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		configPath = exampleConfig
	}
	return cfg, configPath, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigPath(path),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func renderBoard(ctx context.Context, cmd *cli.Command) error {
	panX, panY := cmd.Float("pan-x"), cmd.Float("pan-y")
	if !(math.Abs(panX) <= viewport.MaxPan && math.Abs(panY) <= viewport.MaxPan) {
		return fmt.Errorf("pan (%g, %g) out of range ±%g", panX, panY, viewport.MaxPan)
	}
	notes, err := client.New(cmd.String("server")).ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("fetch notes: %w", err)
	}

	vp := viewport.New()
	vp.Set(cmd.Float("zoom"), panX, panY)
	svg := render.RenderSVG(&render.Renderer{}, vp, cmd.Float("width"), cmd.Float("height"), notes)

	out := cmd.String("out")
	if out == "-" {
		_, err = os.Stdout.Write(svg)
		return err
	}
	if err := os.WriteFile(out, svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	slog.Info("board rendered", slog.String("out", out), slog.Int("notes", len(notes)))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "corkboard",
		Usage:  "Shared infinite canvas of sticky notes with a daily per-user quota",
		Action: serve,
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
				Usage:  "Run the HTTP API server",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the board tools over MCP stdio",
				Action: serveMCP,
			},
			{
				Name:   "render",
				Usage:  "Render a running server's board to an SVG file",
				Action: renderBoard,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "server",
						Usage:   "Base URL of the corkboard server",
						Value:   "http://127.0.0.1:8080",
						Sources: cli.EnvVars("CORKBOARD_SERVER"),
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output file, or - for stdout",
						Value: "board.svg",
					},
					&cli.FloatFlag{Name: "zoom", Usage: "Zoom factor", Value: 1},
					&cli.FloatFlag{Name: "pan-x", Usage: "Horizontal pan in world units"},
					&cli.FloatFlag{Name: "pan-y", Usage: "Vertical pan in world units"},
					&cli.FloatFlag{Name: "width", Usage: "Image width in pixels", Value: 1200},
					&cli.FloatFlag{Name: "height", Usage: "Image height in pixels", Value: 800},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
