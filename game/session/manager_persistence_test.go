package session

import (
	"testing"
	"time"

	"github.com/wricardo/petitschevaux/game/engine"
)

func TestManagerWithPersistence(t *testing.T) {
	persistence, configManager, _ := newTestPersistence(t)
	manager := NewManagerWithPersistence(persistence)

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", configManager.GetDefault())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		manager2 := NewManagerWithPersistence(persistence)
		if manager2.Count() != 0 {
			t.Fatal("Expected empty manager")
		}

		session, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}
		if session.ID != "auto1" {
			t.Errorf("Expected auto1, got %s", session.ID)
		}
		if manager2.Count() != 1 {
			t.Error("Expected loaded session to be cached in memory")
		}
	})

	t.Run("Save Method Persists Changes", func(t *testing.T) {
		session, err := manager.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		err = session.WithLock(func(e *engine.GameEngine) error {
			return e.PlaceHorse(engine.Blue)
		})
		if err != nil {
			t.Fatalf("PlaceHorse failed: %v", err)
		}
		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := persistence.Load("auto1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if color, _ := loaded.Engine.Occupant(30); color != engine.Blue {
			t.Errorf("Expected blue on 30 after reload, got %q", color)
		}
	})

	t.Run("Delete Removes from Persistence", func(t *testing.T) {
		if _, err := manager.Create("del1", configManager.GetDefault()); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := manager.Delete("del1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("del1") {
			t.Error("Expected session file to be removed")
		}
	})

	t.Run("Load Persisted Sessions on Startup", func(t *testing.T) {
		if _, err := manager.Create("boot1", configManager.GetDefault()); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		restarted := NewManagerWithPersistence(persistence)
		if err := restarted.LoadPersistedSessions(); err != nil {
			t.Fatalf("LoadPersistedSessions failed: %v", err)
		}
		if restarted.Count() != 2 {
			t.Errorf("Expected 2 restored sessions, got %d", restarted.Count())
		}
		if err := restarted.SaveAllSessions(); err != nil {
			t.Errorf("SaveAllSessions failed: %v", err)
		}
	})

	t.Run("Update Last Accessed Persists", func(t *testing.T) {
		session, err := manager.Get("boot1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		session.LastAccessedAt = time.Now().Add(-time.Hour)
		if err := manager.UpdateLastAccessed("boot1"); err != nil {
			t.Fatalf("UpdateLastAccessed failed: %v", err)
		}

		loaded, err := persistence.Load("boot1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if time.Since(loaded.LastAccessedAt) > time.Minute {
			t.Errorf("Expected persisted access time to be recent, got %v", loaded.LastAccessedAt)
		}
	})
}

func TestManagerWithPersistence_CleanupExpired(t *testing.T) {
	persistence, configManager, _ := newTestPersistence(t)
	manager := NewManagerWithPersistence(persistence)

	stale, err := manager.Create("stale", configManager.GetDefault())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	stale.LastAccessedAt = time.Now().Add(-48 * time.Hour)
	if _, err := manager.Create("recent", configManager.GetDefault()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if removed := manager.CleanupExpiredSessions(24 * time.Hour); removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if persistence.Exists("stale") {
		t.Error("Expected the stale session file to be deleted")
	}
	if !persistence.Exists("recent") {
		t.Error("Expected the recent session file to remain")
	}

	// Without the file, the session cannot come back from disk
	if _, err := manager.Get("stale"); err == nil {
		t.Error("Expected stale session to stay gone")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", manager.Count())
	}
}
