package engine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownColor       = errors.New("color is not in play")
	ErrStableEmpty        = errors.New("no horses left in stable")
	ErrIndexOutOfRange    = errors.New("track index out of range")
	ErrInvalidDistance    = errors.New("distance must be at least 1")
	ErrStairwayOverflow   = errors.New("move overshoots the stairway")
	ErrStairwaySlotTaken  = errors.New("stairway slot already occupied")
	ErrStairwaySlotEmpty  = errors.New("stairway slot is empty")
	ErrStairwayNoProgress = errors.New("roll does not move past the current stairway slot")
	ErrInvalidState       = errors.New("invalid game state")
)

// Engine provides the main interface for board operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	GetConfig() *GameConfig

	// Board operations
	PlaceHorse(color Color) error
	MoveHorse(index, distance int) (*MoveResult, error)
	KickHorse(index int) (Color, error)
	AdvanceInStairway(color Color, slot, distance int) error

	// Geometry
	StartIndex(color Color) (int, error)
	StairwayEntryIndex(color Color) (int, error)

	// Read-only views
	Occupant(index int) (Color, int)
	StableCount(color Color) int
	StairwaySlot(color Color, slot int) bool
	TrackLength() int
	StairwayLength() int
	Colors() []Color

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers sharing one engine must serialize access.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	ranks  map[Color]int
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		ranks:  rankTable(config),
		state:  InitGameStateFromConfig(config),
	}

	return engine, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state (used for persistence loading). The
// state must fit the variant: track and stairway sizes, colors in play,
// non-negative counts and start_horses horses per color in total.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("%w: state cannot be nil", ErrInvalidState)
	}
	if len(state.Track) != e.config.TrackLength {
		return fmt.Errorf("%w: track has %d cells, variant %s needs %d",
			ErrInvalidState, len(state.Track), e.config.Name, e.config.TrackLength)
	}
	for i, cell := range state.Track {
		if cell.Empty() && cell.Color == "" {
			continue
		}
		if _, ok := e.ranks[cell.Color]; !ok || cell.Horses <= 0 {
			return fmt.Errorf("%w: cell %d holds %d %q horses", ErrInvalidState, i, cell.Horses, cell.Color)
		}
	}
	for c := range state.Stables {
		if _, ok := e.ranks[c]; !ok {
			return fmt.Errorf("%w: stable for %q, which is not in play", ErrInvalidState, c)
		}
	}
	for _, c := range e.config.Colors {
		if len(state.Stairways[c]) != e.config.StairwayLength {
			return fmt.Errorf("%w: stairway for %s has %d slots, variant %s needs %d",
				ErrInvalidState, c, len(state.Stairways[c]), e.config.Name, e.config.StairwayLength)
		}
		if state.Stables[c] < 0 {
			return fmt.Errorf("%w: %s stable holds %d horses", ErrInvalidState, c, state.Stables[c])
		}
		if total := TotalHorses(state, c); total != e.config.StartHorses {
			return fmt.Errorf("%w: %s has %d horses, variant %s gives %d",
				ErrInvalidState, c, total, e.config.Name, e.config.StartHorses)
		}
	}
	e.state = state
	return nil
}

// Reset puts every horse back in its stable
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = InitGameStateFromConfig(e.config)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal

	return e.state
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// StartIndex returns the track cell where horses of color enter play
func (e *GameEngine) StartIndex(color Color) (int, error) {
	rank, ok := e.ranks[color]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownColor, color)
	}
	return e.segment() * rank, nil
}

// StairwayEntryIndex returns the last shared-track cell before color's stairway.
// The origin color wraps to the very end of the track.
func (e *GameEngine) StairwayEntryIndex(color Color) (int, error) {
	rank, ok := e.ranks[color]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownColor, color)
	}
	if rank == 0 {
		return e.config.TrackLength - 1, nil
	}
	return e.segment()*rank - 1, nil
}

// Occupant returns the color and horse count at index. Out-of-range or
// empty cells report ("", 0).
func (e *GameEngine) Occupant(index int) (Color, int) {
	if !e.inTrack(index) {
		return "", 0
	}
	cell := e.state.Track[index]
	if cell.Empty() {
		return "", 0
	}
	return cell.Color, cell.Horses
}

// StableCount returns the number of horses of color not yet on the track
func (e *GameEngine) StableCount(color Color) int {
	return e.state.Stables[color]
}

// StairwaySlot reports whether slot of color's stairway is occupied
func (e *GameEngine) StairwaySlot(color Color, slot int) bool {
	stairway := e.state.Stairways[color]
	if slot < 0 || slot >= len(stairway) {
		return false
	}
	return stairway[slot]
}

// TrackLength returns the number of cells on the shared track
func (e *GameEngine) TrackLength() int {
	return e.config.TrackLength
}

// StairwayLength returns the number of slots in each stairway
func (e *GameEngine) StairwayLength() int {
	return e.config.StairwayLength
}

// Colors returns the colors in play, origin color first
func (e *GameEngine) Colors() []Color {
	colors := make([]Color, len(e.config.Colors))
	copy(colors, e.config.Colors)
	return colors
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last recorded action, or nil if none
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// segment is the distance between two consecutive start squares
func (e *GameEngine) segment() int {
	return e.config.TrackLength / len(e.config.Colors)
}

func (e *GameEngine) inTrack(index int) bool {
	return index >= 0 && index < len(e.state.Track)
}
