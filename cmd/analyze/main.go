// Command analyze prints lap geometry for game variants: where each color
// enters the track, where it turns into its stairway, how far that is and
// how many rolls it takes at best. It flags stairway slots a single roll can
// never reach. Arguments ending in .json are read as variant files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/petitschevaux/game/config"
	"github.com/wricardo/petitschevaux/game/dice"
	"github.com/wricardo/petitschevaux/game/engine"
)

// ColorLap is the lap geometry of one color
type ColorLap struct {
	Color    engine.Color
	Start    int
	Entry    int
	LapSteps int // squares from start to stairway entry
	MinRolls int // rolls of the highest face needed to reach the last stairway slot
}

// LapReport is the analysis of one variant
type LapReport struct {
	Variant  string
	Config   *engine.GameConfig
	Laps     []ColorLap
	Warnings []string
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "print lap geometry for game variants",
		ArgsUsage: "[variant|file.json...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory with extra variant files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("config-dir"), cmd.Args().Slice())
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, configDir string, names []string) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	for _, name := range names {
		cfg, err := loadVariant(manager, name)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		report, err := analyze(name, cfg)
		if err != nil {
			return err
		}
		printReport(w, report)
	}
	return nil
}

func loadVariant(manager *config.Manager, name string) (*engine.GameConfig, error) {
	if filepath.Ext(name) == ".json" {
		return engine.LoadGameConfig(name)
	}
	return manager.LoadConfig(name)
}

func analyze(name string, cfg *engine.GameConfig) (*LapReport, error) {
	e, err := engine.NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	report := &LapReport{Variant: name, Config: cfg}
	for _, c := range e.Colors() {
		start, _ := e.StartIndex(c)
		entry, _ := e.StairwayEntryIndex(c)
		lap := engine.TrackDistance(start, entry, cfg.TrackLength)
		report.Laps = append(report.Laps, ColorLap{
			Color:    c,
			Start:    start,
			Entry:    entry,
			LapSteps: lap,
			MinRolls: ceilDiv(lap+cfg.StairwayLength, dice.Max),
		})
	}

	if cfg.CrossingRule == engine.CrossingReflect {
		report.Warnings = append(report.Warnings,
			"Overshooting the entry bounces back on the track; horses reach the stairway only from the entry square")
	}
	if cfg.StairwayLength > dice.Max {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"Stairway slots %d..%d are out of reach of a single roll and need climbing", dice.Max, cfg.StairwayLength-1))
	}
	if segment := cfg.TrackLength / len(cfg.Colors); segment <= dice.Max {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"Start squares are only %d apart; a single roll can land on the next color's start", segment))
	}
	return report, nil
}

func printReport(w io.Writer, r *LapReport) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", r.Variant)
	fmt.Fprintf(w, "Name: %s\n", r.Config.Name)
	fmt.Fprintf(w, "Track: %d squares, stairway of %d, %d horses per color\n",
		r.Config.TrackLength, r.Config.StairwayLength, r.Config.StartHorses)
	for _, lap := range r.Laps {
		fmt.Fprintf(w, "  %-7s start %3d  entry %3d  lap %3d  min rolls %d\n",
			lap.Color, lap.Start, lap.Entry, lap.LapSteps, lap.MinRolls)
	}

	if len(r.Warnings) == 0 {
		fmt.Fprintln(w, "✅ Every stairway slot is reachable with one roll")
		return
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "⚠️  %s\n", warning)
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
