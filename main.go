// Command petitschevaux plays Petits Chevaux boards in the terminal.
//
// It supports these commands:
//  1. "demo" (default) – plays a scripted game and draws the board as it goes
//  2. "variants" – lists the built-in variants and those in the config directory
//  3. "validate" – checks variant JSON files
//  4. "sessions" – lists games saved in the sessions directory, optionally
//     pruning idle ones
//  5. "history" – pages through the moves of a saved game
//
// Settings come from the environment (optionally loaded from a .env file)
// and can be overridden by flags.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Petits Chevaux"
)

// Config holds the environment defaults for every flag
type Config struct {
	Variant        string `env:"PETITSCHEVAUX_VARIANT"`
	DefaultVariant string `env:"PETITSCHEVAUX_DEFAULT_VARIANT"`
	ConfigDir      string `env:"CONFIG_DIR"                    envDefault:"configs"`
	SessionsDir    string `env:"SESSIONS_DIR"`
	Script         string `env:"PETITSCHEVAUX_SCRIPT"`
	Seed           int64  `env:"PETITSCHEVAUX_SEED"`
	Color          string `env:"PETITSCHEVAUX_COLOR"           envDefault:"auto"`
	Debug          bool   `env:"DEBUG"`
}

// loadConfig reads .env when present, then parses the environment
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}
	} else {
		log.Debug("loaded environment variables from .env file")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(cfg, os.Stdout).Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// demoFlags returns the flags of the demo command. The root command carries
// a local copy so that a bare invocation accepts them too.
func demoFlags(cfg Config, local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "variant",
			Usage: "variant to play; defaults to the one named by the script",
			Value: cfg.Variant,
			Local: local,
		},
		&cli.StringFlag{
			Name:  "script",
			Usage: "Lua scenario script to play instead of the built-in demo",
			Value: cfg.Script,
			Local: local,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "dice seed; 0 picks one from the clock",
			Value: cfg.Seed,
			Local: local,
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "ANSI colors: auto, always or never",
			Value: cfg.Color,
			Local: local,
		},
		&cli.StringFlag{
			Name:  "sessions-dir",
			Usage: "save the played game in this directory",
			Value: cfg.SessionsDir,
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "every-step",
			Usage: "draw the board after every action",
			Value: true,
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "stop at the first refused step",
			Local: local,
		},
	}
}

func sessionsDirFlag(cfg Config) cli.Flag {
	return &cli.StringFlag{
		Name:  "sessions-dir",
		Usage: "directory holding saved games",
		Value: cfg.SessionsDir,
	}
}

// newCommand builds the command tree. Flag defaults come from cfg.
func newCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "petitschevaux",
		Usage:   "play Petits Chevaux boards in the terminal",
		Version: Version,
		Writer:  out,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Usage: "directory with extra variant files",
				Value: cfg.ConfigDir,
			},
			&cli.StringFlag{
				Name:  "default-variant",
				Usage: "variant for scripts that name none",
				Value: cfg.DefaultVariant,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
				Value: cfg.Debug,
			},
		}, demoFlags(cfg, true)...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDemo(ctx, cmd, out)
		},
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "play a scripted game (default)",
				Flags: demoFlags(cfg, false),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runDemo(ctx, cmd, out)
				},
			},
			{
				Name:  "variants",
				Usage: "list available variants, or copy one into the config directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "copy",
						Usage: "variant to copy into the config directory for editing",
					},
					&cli.StringFlag{
						Name:  "as",
						Usage: "name of the copy; defaults to the original name",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runVariants(ctx, cmd, out)
				},
			},
			{
				Name:      "validate",
				Usage:     "check variant files; with no arguments checks the config directory",
				ArgsUsage: "[file...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runValidate(ctx, cmd, out)
				},
			},
			{
				Name:  "sessions",
				Usage: "list games saved in the sessions directory",
				Flags: []cli.Flag{
					sessionsDirFlag(cfg),
					&cli.DurationFlag{
						Name:  "prune",
						Usage: "first delete games idle for longer than this, e.g. 72h",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSessions(ctx, cmd, out)
				},
			},
			{
				Name:      "history",
				Usage:     "show the moves of a saved game",
				ArgsUsage: "<game-id>",
				Flags: []cli.Flag{
					sessionsDirFlag(cfg),
					&cli.IntFlag{
						Name:  "page",
						Usage: "page to show",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "moves per page, at most 100",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "asc or desc",
						Value: "desc",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHistory(ctx, cmd, out)
				},
			},
		},
	}
}
