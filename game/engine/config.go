package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// ValidateGameConfig validates a game variant for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	// Validate colors
	if len(config.Colors) < MinColors || len(config.Colors) > MaxColors {
		return fmt.Errorf("config validation: colors must list between %d and %d colors, got %d",
			MinColors, MaxColors, len(config.Colors))
	}
	seen := make(map[Color]bool, len(config.Colors))
	for i, c := range config.Colors {
		if !isKnownColor(c) {
			return fmt.Errorf("config validation: unknown color '%s' at position %d", c, i+1)
		}
		if seen[c] {
			return fmt.Errorf("config validation: duplicate color '%s'", c)
		}
		seen[c] = true
	}

	// Validate track geometry
	if config.TrackLength < MinTrackLength || config.TrackLength > MaxTrackLength {
		return fmt.Errorf("config validation: track_length must be between %d and %d, got %d",
			MinTrackLength, MaxTrackLength, config.TrackLength)
	}
	if config.TrackLength%len(config.Colors) != 0 {
		return fmt.Errorf("config validation: track_length %d must be divisible by the number of colors (%d)",
			config.TrackLength, len(config.Colors))
	}

	// Validate horses and stairway
	if config.StartHorses < MinStartHorses || config.StartHorses > MaxStartHorses {
		return fmt.Errorf("config validation: start_horses must be between %d and %d, got %d",
			MinStartHorses, MaxStartHorses, config.StartHorses)
	}
	if config.StairwayLength < MinStairwayLength || config.StairwayLength > MaxStairwayLength {
		return fmt.Errorf("config validation: stairway_length must be between %d and %d, got %d",
			MinStairwayLength, MaxStairwayLength, config.StairwayLength)
	}

	switch config.CrossingRule {
	case "", CrossingStairway, CrossingReflect:
	default:
		return fmt.Errorf("config validation: crossing_rule must be '%s' or '%s', got '%s'",
			CrossingStairway, CrossingReflect, config.CrossingRule)
	}

	return nil
}

// LoadGameConfig loads and validates a game variant from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns the classic 40-square variant
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:           "classic",
		Description:    "Classic 40-square track, two horses per color, six-step stairways",
		TrackLength:    40,
		StartHorses:    2,
		StairwayLength: 6,
		Colors:         []Color{Red, Yellow, Green, Blue},
		CrossingRule:   CrossingStairway,
	}
}

// InitGameStateFromConfig creates a fresh game state using the provided configuration.
// A nil config falls back to DefaultConfig.
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	stables := make(map[Color]int, len(config.Colors))
	stairways := make(map[Color][]bool, len(config.Colors))
	for _, c := range config.Colors {
		stables[c] = config.StartHorses
		stairways[c] = make([]bool, config.StairwayLength)
	}

	return &GameState{
		Track:       make([]Cell, config.TrackLength),
		Stables:     stables,
		Stairways:   stairways,
		ConfigName:  config.Name,
		Message:     fmt.Sprintf("New %s game: %d horses per color", config.Name, config.StartHorses),
		MoveHistory: []MoveHistoryEntry{},
		TotalMoves:  0,
	}
}

// rankTable maps each color in play to its position in the configured order
func rankTable(config *GameConfig) map[Color]int {
	ranks := make(map[Color]int, len(config.Colors))
	for i, c := range config.Colors {
		ranks[c] = i
	}
	return ranks
}

func isKnownColor(c Color) bool {
	for _, known := range KnownColors {
		if c == known {
			return true
		}
	}
	return false
}
