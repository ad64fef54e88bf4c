package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/petitschevaux/game/config"
	"github.com/wricardo/petitschevaux/game/dice"
	"github.com/wricardo/petitschevaux/game/engine"
	"github.com/wricardo/petitschevaux/game/render"
	"github.com/wricardo/petitschevaux/game/scenario"
	"github.com/wricardo/petitschevaux/game/service"
	"github.com/wricardo/petitschevaux/game/session"
	"github.com/wricardo/petitschevaux/validate"
)

// defaultConfigDir may be missing; the built-in variants are used alone then
const defaultConfigDir = "configs"

// serviceOptions selects where variants and saved games live
type serviceOptions struct {
	ConfigDir      string
	DefaultVariant string
	SessionsDir    string // empty keeps games in memory only
	Seed           int64  // 0 seeds the dice from the clock
}

func optionsFromCommand(cmd *cli.Command) serviceOptions {
	return serviceOptions{
		ConfigDir:      cmd.String("config-dir"),
		DefaultVariant: cmd.String("default-variant"),
		SessionsDir:    cmd.String("sessions-dir"),
	}
}

// newConfigManager opens configDir, tolerating a missing default directory,
// and selects defaultVariant when set
func newConfigManager(configDir, defaultVariant string) (*config.Manager, error) {
	if configDir == defaultConfigDir {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			log.WithField("dir", configDir).Debug("no config directory, using built-in variants")
			configDir = ""
		}
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	if defaultVariant != "" {
		if err := manager.SetDefault(defaultVariant); err != nil {
			return nil, fmt.Errorf("default variant: %w", err)
		}
	}
	return manager, nil
}

// initializeServices wires the config and session managers and the game service
func initializeServices(opts serviceOptions) (service.GameService, *session.Manager, error) {
	configManager, err := newConfigManager(opts.ConfigDir, opts.DefaultVariant)
	if err != nil {
		return nil, nil, err
	}

	sessionManager := session.NewManager()
	if opts.SessionsDir != "" {
		persistence, err := session.NewFilePersistence(opts.SessionsDir, configManager)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		sessionManager = session.NewManagerWithPersistence(persistence)
		if err := sessionManager.LoadPersistedSessions(); err != nil {
			log.WithError(err).Warn("failed to load persisted sessions")
		}
	}

	var die dice.Source
	if opts.Seed != 0 {
		die = dice.NewRandom(uint64(opts.Seed))
	}

	return service.NewGameService(sessionManager, configManager, die), sessionManager, nil
}

// rendererOptions maps the --color setting to renderer options
func rendererOptions(mode string) ([]render.Option, error) {
	switch strings.ToLower(mode) {
	case "", "auto":
		return nil, nil
	case "always":
		return []render.Option{render.WithColor(true)}, nil
	case "never":
		return []render.Option{render.WithColor(false)}, nil
	default:
		return nil, fmt.Errorf("unknown color mode %q: use auto, always or never", mode)
	}
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Demo()
	}
	return scenario.LoadFile(path)
}

func runDemo(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	renderOpts, err := rendererOptions(cmd.String("color"))
	if err != nil {
		return err
	}

	sc, err := loadScenario(cmd.String("script"))
	if err != nil {
		return err
	}

	opts := optionsFromCommand(cmd)
	opts.Seed = cmd.Int64("seed")
	svc, sessions, err := initializeServices(opts)
	if err != nil {
		return err
	}

	runner := scenario.NewRunner(svc, out,
		scenario.WithRenderer(render.New(out, renderOpts...)),
		scenario.WithRenderEveryStep(cmd.Bool("every-step")),
		scenario.WithStrict(cmd.Bool("strict")),
	)

	report, err := runner.Run(ctx, sc, cmd.String("variant"))
	if err != nil {
		return err
	}

	if err := sessions.SaveAllSessions(); err != nil {
		log.WithError(err).Warn("failed to save games")
	}

	fmt.Fprintf(out, "\n%s: %d steps played, %d refused (game %s)\n", sc.Name, report.Steps, report.Refused, report.SessionID)
	return nil
}

func runVariants(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	configManager, err := newConfigManager(cmd.String("config-dir"), cmd.String("default-variant"))
	if err != nil {
		return err
	}

	if name := cmd.String("copy"); name != "" {
		return copyVariant(configManager, name, cmd.String("as"), out)
	}

	configs, err := configManager.ListConfigs()
	if err != nil {
		return err
	}
	defaultName := configManager.GetDefault().Name

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSQUARES\tHORSES\tSTAIRWAY\tCROSSING\tCOLORS\tSOURCE\tDESCRIPTION")
	for _, c := range configs {
		id := c.ConfigID
		if c.Name == defaultName {
			id += " *"
		}
		source := "file"
		if c.Builtin {
			source = "built-in"
		}
		colors := make([]string, len(c.Colors))
		for i, color := range c.Colors {
			colors[i] = string(color)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			id, c.TrackLength, c.StartHorses, c.StairwayLength, c.CrossingRule,
			strings.Join(colors, ","), source, c.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, "* default variant")
	return nil
}

// copyVariant writes variant name into the config directory as newName so it
// can be edited
func copyVariant(configManager *config.Manager, name, newName string, out io.Writer) error {
	source, err := configManager.LoadConfig(name)
	if err != nil {
		return err
	}
	if newName == "" {
		newName = strings.TrimSuffix(name, ".json")
	}

	copied := *source
	copied.Name = newName
	copied.Colors = append([]engine.Color(nil), source.Colors...)
	if err := configManager.SaveConfig(newName, &copied); err != nil {
		return err
	}

	fmt.Fprintf(out, "Copied %s to %s.json\n", name, newName)
	return nil
}

func runValidate(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	var results []validate.ValidationResult
	if cmd.Args().Len() > 0 {
		for _, file := range cmd.Args().Slice() {
			results = append(results, validate.File(file))
		}
	} else {
		var err error
		results, err = validate.Dir(cmd.String("config-dir"))
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(out, "No variant files in %s\n", cmd.String("config-dir"))
			return nil
		}
	}

	if !validate.Print(out, results) {
		return errors.New("some variants have errors")
	}
	return nil
}

// openSaved opens the games saved in the --sessions-dir directory
func openSaved(cmd *cli.Command) (service.GameService, *session.Manager, error) {
	opts := optionsFromCommand(cmd)
	if opts.SessionsDir == "" {
		return nil, nil, fmt.Errorf("no sessions directory: set --sessions-dir or SESSIONS_DIR")
	}
	return initializeServices(opts)
}

func runSessions(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	svc, sessions, err := openSaved(cmd)
	if err != nil {
		return err
	}
	dir := cmd.String("sessions-dir")

	if maxAge := cmd.Duration("prune"); maxAge > 0 {
		removed := sessions.CleanupExpiredSessions(maxAge)
		fmt.Fprintf(out, "Removed %d games idle for more than %s\n", removed, maxAge)
	}

	infos, err := svc.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(out, "No saved games in %s\n", dir)
		return nil
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastAccessedAt.After(infos[j].LastAccessedAt)
	})

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVARIANT\tMOVES\tLAST PLAYED")
	for _, s := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.ConfigName, s.GameState.TotalMoves, s.LastAccessedAt.Format(time.DateTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d saved games\n", sessions.Count())
	return nil
}

func runHistory(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("history needs exactly one game ID")
	}
	id := cmd.Args().First()

	svc, _, err := openSaved(cmd)
	if err != nil {
		return err
	}

	order := strings.ToLower(cmd.String("order"))
	if order != "asc" && order != "desc" {
		return fmt.Errorf("unknown order %q: use asc or desc", order)
	}

	resp, err := svc.GetMoveHistory(ctx, id, service.HistoryOptions{
		Page:  cmd.Int("page"),
		Limit: cmd.Int("limit"),
		Order: order,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Game %s: %d moves, page %d of %d\n", id, resp.TotalMoves, resp.Page, resp.TotalPages)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tACTION\tCOLOR\tFROM\tTO\tROLL\tKICKED")
	for _, m := range resp.Moves {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.MoveNumber, m.Action, m.Color, historyFrom(m), historyTo(m), blankZero(m.Distance), m.Kicked)
	}
	return tw.Flush()
}

func historyFrom(m engine.MoveHistoryEntry) string {
	switch {
	case m.From < 0:
		return "stable"
	case m.Action == engine.ActionAdvance:
		return fmt.Sprintf("slot %d", m.From)
	default:
		return fmt.Sprint(m.From)
	}
}

func historyTo(m engine.MoveHistoryEntry) string {
	switch {
	case m.To < 0:
		return "stable"
	case m.Stairway:
		return fmt.Sprintf("slot %d", m.To)
	default:
		return fmt.Sprint(m.To)
	}
}

func blankZero(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}
