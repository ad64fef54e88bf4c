package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/petitschevaux/game/engine"
)

var (
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrSessionNotFound = errors.New("session not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board Operations
	PlaceHorse(ctx context.Context, sessionID string, color engine.Color) (*ActionResult, error)
	MoveHorse(ctx context.Context, sessionID string, index, distance int) (*ActionResult, error)
	RollAndMove(ctx context.Context, sessionID string, index int) (*ActionResult, error)
	KickHorse(ctx context.Context, sessionID string, index int) (*ActionResult, error)
	AdvanceInStairway(ctx context.Context, sessionID string, color engine.Color, slot, distance int) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	ViewBoard(ctx context.Context, sessionID string, fn func(board engine.Engine) error) error

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game variant loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
}

// Session represents an active game. The engine is only touched while
// holding the session lock.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// WithLock runs fn with exclusive access to the session's engine
func (s *Session) WithLock(fn func(e *engine.GameEngine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.Engine)
}
