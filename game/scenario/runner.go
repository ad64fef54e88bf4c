package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/petitschevaux/game/engine"
	"github.com/wricardo/petitschevaux/game/render"
	"github.com/wricardo/petitschevaux/game/service"
)

// ruleErrors are engine refusals that leave the board untouched. The runner
// reports them and carries on unless it is strict.
var ruleErrors = []error{
	engine.ErrUnknownColor,
	engine.ErrStableEmpty,
	engine.ErrIndexOutOfRange,
	engine.ErrInvalidDistance,
	engine.ErrStairwayOverflow,
	engine.ErrStairwaySlotTaken,
	engine.ErrStairwaySlotEmpty,
	engine.ErrStairwayNoProgress,
}

func isRuleError(err error) bool {
	for _, target := range ruleErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Report summarizes one scenario run
type Report struct {
	SessionID string
	Steps     int
	Refused   int
}

// Runner plays scenarios against a GameService
type Runner struct {
	svc       service.GameService
	out       io.Writer
	renderer  *render.Renderer
	everyStep bool
	strict    bool
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithRenderer replaces the default renderer
func WithRenderer(r *render.Renderer) RunnerOption {
	return func(runner *Runner) {
		runner.renderer = r
	}
}

// WithRenderEveryStep draws the board after every action. Explicit render
// steps are then skipped.
func WithRenderEveryStep(enabled bool) RunnerOption {
	return func(runner *Runner) {
		runner.everyStep = enabled
	}
}

// WithStrict stops the run at the first refused step
func WithStrict(enabled bool) RunnerOption {
	return func(runner *Runner) {
		runner.strict = enabled
	}
}

// NewRunner creates a runner writing step messages and boards to out
func NewRunner(svc service.GameService, out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		svc: svc,
		out: out,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.renderer == nil {
		r.renderer = render.New(out)
	}
	return r
}

// Run creates a game on variant, or on the scenario's own variant when
// variant is empty, and plays every step on it
func (r *Runner) Run(ctx context.Context, sc *Scenario, variant string) (*Report, error) {
	if variant == "" {
		variant = sc.Variant
	}

	info, err := r.svc.CreateSession(ctx, variant)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	report := &Report{SessionID: info.ID}

	logger := log.WithFields(log.Fields{
		"scenario": sc.Name,
		"session":  info.ID,
	})
	logger.WithField("steps", len(sc.Steps)).Info("scenario started")
	fmt.Fprintln(r.out, info.GameState.Message)

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Steps++
		message, err := r.play(ctx, info.ID, step)
		if err != nil {
			if !isRuleError(err) {
				return report, fmt.Errorf("step %d (%s): %w", i+1, step, err)
			}
			report.Refused++
			logger.WithError(err).WithField("step", i+1).Debug("step refused")
			fmt.Fprintf(r.out, "%3d. %s refused: %v\n", i+1, step, err)
			if r.strict {
				return report, fmt.Errorf("step %d (%s): %w", i+1, step, err)
			}
			continue
		}

		if message != "" {
			fmt.Fprintf(r.out, "%3d. %s\n", i+1, message)
		}

		switch step.Kind {
		case StepRender:
			if !r.everyStep {
				if err := r.render(ctx, info.ID); err != nil {
					return report, err
				}
			}
		case StepNote:
		default:
			if r.everyStep {
				if err := r.render(ctx, info.ID); err != nil {
					return report, err
				}
			}
		}
	}

	logger.WithFields(log.Fields{
		"played":  report.Steps,
		"refused": report.Refused,
	}).Info("scenario finished")
	return report, nil
}

// play runs one step and returns the line to print for it
func (r *Runner) play(ctx context.Context, sessionID string, step Step) (string, error) {
	var (
		result *service.ActionResult
		err    error
	)

	switch step.Kind {
	case StepPlace:
		result, err = r.svc.PlaceHorse(ctx, sessionID, step.Color)
	case StepMove:
		result, err = r.svc.MoveHorse(ctx, sessionID, step.Index, step.Distance)
	case StepRoll:
		result, err = r.svc.RollAndMove(ctx, sessionID, step.Index)
	case StepRide:
		result, err = r.ride(ctx, sessionID, step.Color)
	case StepKick:
		result, err = r.svc.KickHorse(ctx, sessionID, step.Index)
	case StepAdvance:
		result, err = r.svc.AdvanceInStairway(ctx, sessionID, step.Color, step.Slot, step.Distance)
	case StepReset:
		state, err := r.svc.Reset(ctx, sessionID)
		if err != nil {
			return "", err
		}
		return state.Message, nil
	case StepNote:
		return step.Text, nil
	case StepRender:
		return "", nil
	default:
		return "", fmt.Errorf("unknown step kind %q", step.Kind)
	}
	if err != nil {
		return "", err
	}

	if result.Roll > 0 {
		return fmt.Sprintf("%s rolled %d: %s", result.Color, result.Roll, result.Message), nil
	}
	return result.Message, nil
}

// ride rolls for the horse of color furthest along its lap. A color with no
// horse on the track brings one out of its stable instead.
func (r *Runner) ride(ctx context.Context, sessionID string, color engine.Color) (*service.ActionResult, error) {
	leader, inStable := -1, 0
	err := r.svc.ViewBoard(ctx, sessionID, func(board engine.Engine) error {
		start, err := board.StartIndex(color)
		if err != nil {
			return err
		}
		best := -1
		for i := 0; i < board.TrackLength(); i++ {
			if c, _ := board.Occupant(i); c != color {
				continue
			}
			if d := engine.TrackDistance(start, i, board.TrackLength()); d > best {
				best, leader = d, i
			}
		}
		inStable = board.StableCount(color)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if leader >= 0 {
		return r.svc.RollAndMove(ctx, sessionID, leader)
	}
	if inStable > 0 {
		return r.svc.PlaceHorse(ctx, sessionID, color)
	}
	return &service.ActionResult{
		Action:  string(StepRide),
		Color:   color,
		Message: fmt.Sprintf("%s has no horse left to ride", color),
	}, nil
}

func (r *Runner) render(ctx context.Context, sessionID string) error {
	return r.svc.ViewBoard(ctx, sessionID, func(board engine.Engine) error {
		return r.renderer.Render(board)
	})
}
