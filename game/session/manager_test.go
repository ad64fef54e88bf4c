package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/petitschevaux/game/engine"
)

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := engine.DefaultConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("game1", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "game1" {
			t.Errorf("Expected ID game1, got %s", session.ID)
		}
		if session.Engine == nil {
			t.Fatal("Expected session to own an engine")
		}
		if session.Engine.StableCount(engine.Red) != config.StartHorses {
			t.Errorf("Expected a fresh board, red stable %d", session.Engine.StableCount(engine.Red))
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		if _, err := manager.Create("game1", config); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		if _, err := manager.Create("GAME1", config); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		if _, err := manager.Create("../escape", config); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := engine.DefaultConfig()
		bad.TrackLength = 41
		if _, err := manager.Create("bad", bad); err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("Mixed", engine.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("Mixed")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the same session instance")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("mIXED")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != "Mixed" {
			t.Errorf("Expected original ID to be kept, got %s", session.ID)
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := manager.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := engine.DefaultConfig()

	t.Run("delete existing session", func(t *testing.T) {
		if _, err := manager.Create("gone", config); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := manager.Delete("gone"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := manager.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected deleted session to be gone, got %v", err)
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("never"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		if _, err := manager.Create("Upper", config); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := manager.Delete("UPPER"); err != nil {
			t.Errorf("Delete failed: %v", err)
		}
	})

	t.Run("delete from memory", func(t *testing.T) {
		if _, err := manager.Create("mem", config); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := manager.DeleteFromMemory("mem"); err != nil {
			t.Errorf("DeleteFromMemory failed: %v", err)
		}
		if err := manager.DeleteFromMemory("mem"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	if len(manager.List()) != 0 {
		t.Error("Expected empty list")
	}

	for i := 0; i < 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("s%d", i), engine.DefaultConfig()); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := engine.DefaultConfig()

	old, err := manager.Create("old", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if _, err := manager.Create("fresh", config); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Errorf("Expected fresh session to survive: %v", err)
	}
	if _, err := manager.Get("old"); err == nil {
		t.Error("Expected old session to be removed")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, err := manager.Create("touch", engine.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	before := time.Now().Add(-time.Minute)
	session.LastAccessedAt = before

	if err := manager.UpdateLastAccessed("TOUCH"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected last access time to move forward")
	}

	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_SaveWithoutPersistence(t *testing.T) {
	manager := NewManager()
	if err := manager.Save("anything"); err != nil {
		t.Errorf("Save without persistence should be a no-op, got %v", err)
	}
	if err := manager.SaveAllSessions(); err != nil {
		t.Errorf("SaveAllSessions without persistence should be a no-op, got %v", err)
	}
	if err := manager.LoadPersistedSessions(); err != nil {
		t.Errorf("LoadPersistedSessions without persistence should be a no-op, got %v", err)
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := engine.DefaultConfig()

	a, err := manager.Create("a", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	b, err := manager.Create("b", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := a.Engine.PlaceHorse(engine.Red); err != nil {
		t.Fatalf("PlaceHorse failed: %v", err)
	}

	if color, _ := b.Engine.Occupant(0); color != "" {
		t.Errorf("Expected session b untouched, found %s on 0", color)
	}
	if b.Engine.StableCount(engine.Red) != config.StartHorses {
		t.Error("Expected session b stable untouched")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := engine.DefaultConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			if _, err := manager.Create(id, config); err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(id); err != nil {
				errs <- err
			}
			manager.List()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent access error: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		session, err := manager.Create("", engine.DefaultConfig())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("Duplicate generated ID %s", session.ID)
		}
		seen[session.ID] = true
	}
}
