package service

import (
	"time"

	"github.com/wricardo/petitschevaux/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the result of a board operation
type ActionResult struct {
	Action    string             `json:"action"`
	Color     engine.Color       `json:"color,omitempty"`
	Roll      int                `json:"roll,omitempty"`
	Move      *engine.MoveResult `json:"move,omitempty"`
	Kicked    engine.Color       `json:"kicked,omitempty"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string       `json:"type"` // "roll", "place", "move", "kick", "stairway", "reset"
	Color     engine.Color `json:"color,omitempty"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game variant
type ConfigInfo struct {
	Filename       string              `json:"filename,omitempty"`
	ConfigID       string              `json:"config_id"` // The identifier to use for session creation
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	TrackLength    int                 `json:"track_length"`
	StartHorses    int                 `json:"start_horses"`
	StairwayLength int                 `json:"stairway_length"`
	Colors         []engine.Color      `json:"colors"`
	CrossingRule   engine.CrossingRule `json:"crossing_rule"`
	Builtin        bool                `json:"builtin"`
}
