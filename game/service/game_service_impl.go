package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/petitschevaux/game/dice"
	"github.com/wricardo/petitschevaux/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	die      dice.Source
}

// NewGameService creates a new game service instance. A nil die falls back
// to a time-seeded random die.
func NewGameService(sessions SessionManager, configs ConfigManager, die dice.Source) GameService {
	if die == nil {
		die = dice.NewRandom(uint64(time.Now().UnixNano()))
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		die:      die,
	}
}

// getConfigID returns the config_id for a given variant name, used for consistent responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, configIDs, err)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.WithFields(log.Fields{
		"session": session.ID,
		"variant": configID,
	}).Info("game created")

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// withSession records the access under the session lock
	if err := s.withSession(ctx, sessionID, func(*engine.GameEngine) error { return nil }); err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	log.WithField("session", sessionID).Info("game deleted")
	return nil
}

// PlaceHorse takes a horse of color out of its stable
func (s *gameServiceImpl) PlaceHorse(ctx context.Context, sessionID string, color engine.Color) (*ActionResult, error) {
	var result *ActionResult
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		if err := e.PlaceHorse(color); err != nil {
			return fmt.Errorf("place %s: %w", color, err)
		}
		last := e.GetLastMove()
		result = &ActionResult{
			Action:    engine.ActionPlace,
			Color:     color,
			Kicked:    opponentKicked(last),
			GameState: e.GetState(),
			Message:   e.GetState().Message,
			Events:    eventsFor(last),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAction(sessionID, result)
	return result, nil
}

// MoveHorse moves the horse on index by distance
func (s *gameServiceImpl) MoveHorse(ctx context.Context, sessionID string, index, distance int) (*ActionResult, error) {
	var result *ActionResult
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		var err error
		result, err = s.move(e, index, distance)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logAction(sessionID, result)
	return result, nil
}

// RollAndMove rolls the service die and moves the horse on index by the roll
func (s *gameServiceImpl) RollAndMove(ctx context.Context, sessionID string, index int) (*ActionResult, error) {
	var result *ActionResult
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		roll := s.die.Roll()
		var err error
		result, err = s.move(e, index, roll)
		if err != nil {
			return fmt.Errorf("rolled %d: %w", roll, err)
		}
		result.Roll = roll
		rollEvent := GameEvent{
			Type:      "roll",
			Color:     result.Color,
			Message:   fmt.Sprintf("Rolled %d", roll),
			Timestamp: time.Now(),
		}
		result.Events = append([]GameEvent{rollEvent}, result.Events...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAction(sessionID, result)
	return result, nil
}

// KickHorse sends the horses on index back to their stable
func (s *gameServiceImpl) KickHorse(ctx context.Context, sessionID string, index int) (*ActionResult, error) {
	var result *ActionResult
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		kicked, err := e.KickHorse(index)
		if err != nil {
			return fmt.Errorf("kick %d: %w", index, err)
		}
		result = &ActionResult{
			Action:    engine.ActionKick,
			Color:     kicked,
			Kicked:    kicked,
			GameState: e.GetState(),
			Message:   fmt.Sprintf("No horse on %d", index),
		}
		if kicked != "" {
			result.Message = e.GetState().Message
			result.Events = eventsFor(e.GetLastMove())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAction(sessionID, result)
	return result, nil
}

// AdvanceInStairway moves a horse already in its stairway
func (s *gameServiceImpl) AdvanceInStairway(ctx context.Context, sessionID string, color engine.Color, slot, distance int) (*ActionResult, error) {
	var result *ActionResult
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		if err := e.AdvanceInStairway(color, slot, distance); err != nil {
			return fmt.Errorf("advance %s: %w", color, err)
		}
		result = &ActionResult{
			Action:    engine.ActionAdvance,
			Color:     color,
			GameState: e.GetState(),
			Message:   e.GetState().Message,
			Events:    eventsFor(e.GetLastMove()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAction(sessionID, result)
	return result, nil
}

// Reset puts every horse of a session back in its stable
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	var state *engine.GameState
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		state = e.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithField("session", sessionID).Info("game reset")
	return state, nil
}

// GetGameState returns the current state of a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	var state *engine.GameState
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		state = e.GetState()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ViewBoard runs fn against the session's engine while holding its lock.
// fn must only use the read-only accessors.
func (s *gameServiceImpl) ViewBoard(ctx context.Context, sessionID string, fn func(board engine.Engine) error) error {
	return s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		return fn(e)
	})
}

// GetMoveHistory returns a page of the session's history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	var history []engine.MoveHistoryEntry
	err := s.withSession(ctx, sessionID, func(e *engine.GameEngine) error {
		history = append([]engine.MoveHistoryEntry(nil), e.GetMoveHistory()...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game variants
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game variant
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.configs.LoadConfig(configName)
}

// withSession runs fn under the session lock and records the access
func (s *gameServiceImpl) withSession(ctx context.Context, sessionID string, fn func(e *engine.GameEngine) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("get session %s: %w", sessionID, err)
	}

	return sess.WithLock(func(e *engine.GameEngine) error {
		if err := fn(e); err != nil {
			return err
		}
		if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
			log.WithError(err).WithField("session", sessionID).Warn("failed to update last access")
		}
		return nil
	})
}

// move runs one engine move and converts its outcome. Callers hold the session lock.
func (s *gameServiceImpl) move(e *engine.GameEngine, index, distance int) (*ActionResult, error) {
	res, err := e.MoveHorse(index, distance)
	if err != nil {
		return nil, fmt.Errorf("move %d by %d: %w", index, distance, err)
	}

	result := &ActionResult{
		Action:    engine.ActionMove,
		Color:     res.Color,
		Move:      res,
		Kicked:    res.Kicked,
		GameState: e.GetState(),
		Message:   res.Message,
	}
	if res.Moved {
		result.Events = eventsFor(e.GetLastMove())
	}
	return result, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

func (s *gameServiceImpl) logAction(sessionID string, result *ActionResult) {
	fields := log.Fields{
		"session": sessionID,
		"action":  result.Action,
	}
	if result.Color != "" {
		fields["color"] = result.Color
	}
	if result.Roll != 0 {
		fields["roll"] = result.Roll
	}
	if result.Kicked != "" {
		fields["kicked"] = result.Kicked
	}
	log.WithFields(fields).Debug(result.Message)
}

// opponentKicked returns the kicked color of a history entry unless it is
// the acting color itself
func opponentKicked(entry *engine.MoveHistoryEntry) engine.Color {
	if entry == nil || entry.Kicked == entry.Color {
		return ""
	}
	return entry.Kicked
}

// eventsFor converts a history entry into the events it produced
func eventsFor(entry *engine.MoveHistoryEntry) []GameEvent {
	if entry == nil {
		return nil
	}
	now := time.Now()

	var events []GameEvent
	switch entry.Action {
	case engine.ActionPlace:
		events = append(events, GameEvent{
			Type:      "place",
			Color:     entry.Color,
			Message:   fmt.Sprintf("%s entered the track on %d", entry.Color, entry.To),
			Timestamp: now,
		})
	case engine.ActionMove:
		if entry.Stairway {
			events = append(events, GameEvent{
				Type:      "stairway",
				Color:     entry.Color,
				Message:   fmt.Sprintf("%s entered its stairway at slot %d", entry.Color, entry.To),
				Timestamp: now,
			})
		} else {
			events = append(events, GameEvent{
				Type:      "move",
				Color:     entry.Color,
				Message:   fmt.Sprintf("%s moved from %d to %d", entry.Color, entry.From, entry.To),
				Timestamp: now,
			})
		}
	case engine.ActionAdvance:
		events = append(events, GameEvent{
			Type:      "stairway",
			Color:     entry.Color,
			Message:   fmt.Sprintf("%s climbed to stairway slot %d", entry.Color, entry.To),
			Timestamp: now,
		})
	case engine.ActionKick:
		return []GameEvent{{
			Type:      "kick",
			Color:     entry.Kicked,
			Message:   fmt.Sprintf("%s sent back to its stable from %d", entry.Kicked, entry.From),
			Timestamp: now,
		}}
	}

	if kicked := opponentKicked(entry); kicked != "" {
		events = append(events, GameEvent{
			Type:      "kick",
			Color:     kicked,
			Message:   fmt.Sprintf("%s kicked %s on %d", entry.Color, kicked, entry.To),
			Timestamp: now,
		})
	}
	return events
}
