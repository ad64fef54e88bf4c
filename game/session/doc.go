// Package session keeps the registry of running Petits Chevaux games.
//
// Manager maps session IDs to service.Session values, each holding its own
// engine. IDs are four hex characters from crypto/rand unless the caller
// picks one, and lookups ignore case.
//
// Persistence:
//
// A Manager built with NewManagerWithPersistence writes a session through to
// its SessionPersistence on creation and on every access. FilePersistence
// stores one JSON document per session:
//
//	{
//	  "id": "a3f9",
//	  "config_name": "classic",
//	  "created_at": "...",
//	  "last_accessed_at": "...",
//	  "game_state": { "track": [...], "stables": {...}, "stairways": {...} }
//	}
//
// Loading resolves config_name through the config manager and restores the
// board with engine.SetState, so a saved game resumes on the same variant.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.Create("", config)
package session
