// Package engine provides the board engine for the petits chevaux game.
//
// The engine package implements the game mechanics including:
//   - A shared circular track with wraparound movement
//   - Per-color stables of horses waiting to enter play
//   - Kicking opposing horses back to their stable
//   - Private per-color stairways entered at the end of a lap
//   - Variant configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for board operations,
// implemented by GameEngine. GameState holds the track, stables and
// stairways, while GameConfig describes a variant (track length, horses per
// color, stairway length, colors in play and the crossing rule).
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := gameEngine.PlaceHorse(engine.Red); err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameEngine.MoveHorse(0, 4)
//
// Geometry:
//
// Colors are ranked by their position in GameConfig.Colors. A color of rank r
// enters the track at (track_length / colors) * r. The origin color (rank 0)
// reaches its stairway from the last cell of the track; every other color
// reaches it from the cell just before its own start square.
//
// Concurrency:
//
// GameEngine has no internal locking. An engine shared between goroutines
// must be guarded by its owner, as the service package does with one lock
// per game.
package engine
