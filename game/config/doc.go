// Package config provides variant management for Petits Chevaux.
//
// A variant fixes the board geometry: track length, horses per color,
// stairway length, the colors in play and their order, and the rule used
// when a horse overshoots its stairway entry.
//
// Built-in variants are compiled into the binary:
//   - classic: 40 squares, 2 horses per color, stairway of 6
//   - grand: 56 squares, 4 horses per color, stairway of 6
//   - corner: classic geometry, overshooting horses bounce back on the track
//
// Additional variants are JSON files in a config directory. A file named
// after a built-in variant replaces it.
//
//	{
//	  "name": "duel",
//	  "track_length": 20,
//	  "start_horses": 2,
//	  "stairway_length": 4,
//	  "colors": ["red", "green"],
//	  "crossing_rule": "stairway"
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	grand, err := manager.LoadConfig("grand")
//	variants, err := manager.ListConfigs()
//
// Every variant goes through engine.ValidateGameConfig before it is cached.
package config
