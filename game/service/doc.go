// Package service provides the business logic layer for Petits Chevaux.
//
// The service package implements:
//   - Multi-session board management
//   - Variant lookup through a ConfigManager
//   - Dice rolls feeding horse moves
//   - Event reporting for every board action
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level board operations.
// SessionManager handles session creation, retrieval, and persistence.
// ConfigManager resolves variant names to validated configurations.
//
// Architecture:
//
// The service layer sits between the command line front end and the board
// engine. Each session owns an independent engine and a mutex; every
// operation, including read-only board views, runs while holding that mutex,
// so a single engine is never touched by two goroutines at once.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, dice.NewRandom(42))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, err = gameService.PlaceHorse(ctx, info.ID, engine.Red)
//	result, err := gameService.RollAndMove(ctx, info.ID, 0)
package service
