package config

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/petitschevaux/game/engine"
	"github.com/wricardo/petitschevaux/game/service"
)

// DefaultVariant is used when no other default has been chosen
const DefaultVariant = "classic"

var (
	// ErrConfigNotFound is shared with the service layer so callers can match it with errors.Is
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

//go:embed variants/*.json
var builtinFS embed.FS

// Manager handles variant loading and caching. Variants come from the
// built-in set and from JSON files in an optional directory; a file with the
// same name as a built-in variant overrides it.
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir
// serves only the built-in variants.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrConfigNotFound)
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(name)
}

// loadLocked reads a variant into the cache. Callers hold the write lock.
func (m *Manager) loadLocked(name string) (*engine.GameConfig, error) {
	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	data, err := m.readVariant(name)
	if err != nil {
		return nil, err
	}

	config, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	m.configs[name] = config
	return config, nil
}

// readVariant returns the raw JSON of a variant, preferring the directory
func (m *Manager) readVariant(name string) ([]byte, error) {
	if m.configDir != "" {
		data, err := os.ReadFile(filepath.Join(m.configDir, name+".json"))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	data, err := builtinFS.ReadFile(path.Join("variants", name+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read built-in variant: %w", err)
	}
	return data, nil
}

// checkName rejects names that could leave the config directory
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\. `) {
		return fmt.Errorf("%w: variant name %q", ErrInvalidConfig, name)
	}
	return nil
}

func parseConfig(data []byte) (*engine.GameConfig, error) {
	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs returns information about all available configurations,
// sorted by identifier
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	found := make(map[string]*service.ConfigInfo)

	builtins, err := fs.ReadDir(builtinFS, "variants")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in variants: %w", err)
	}
	for _, entry := range builtins {
		name := strings.TrimSuffix(entry.Name(), ".json")
		found[name] = &service.ConfigInfo{Filename: entry.Name(), ConfigID: name, Builtin: true}
	}

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".json")
			found[name] = &service.ConfigInfo{Filename: entry.Name(), ConfigID: name}
		}
	}

	configs := make([]*service.ConfigInfo, 0, len(found))
	for name, info := range found {
		config, err := m.LoadConfig(name)
		if err != nil {
			log.WithError(err).WithField("variant", name).Warn("skipping invalid variant")
			continue
		}

		info.Name = config.Name
		info.Description = config.Description
		info.TrackLength = config.TrackLength
		info.StartHorses = config.StartHorses
		info.StairwayLength = config.StairwayLength
		info.Colors = append([]engine.Color(nil), config.Colors...)
		info.CrossingRule = config.CrossingRule
		if info.CrossingRule == "" {
			info.CrossingRule = engine.CrossingStairway
		}
		configs = append(configs, info)
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// loadDefaultConfig loads the default configuration
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultVariant)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig saves a configuration to the config directory
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if m.configDir == "" {
		return errors.New("no config directory to save into")
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return err
	}
	configPath := filepath.Join(m.configDir, name+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}
