package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Petits Chevaux"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PETITSCHEVAUX_VARIANT", "grand")
	t.Setenv("PETITSCHEVAUX_SEED", "42")
	t.Setenv("DEBUG", "true")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Variant != "grand" {
		t.Errorf("Expected variant grand, got %s", cfg.Variant)
	}
	if cfg.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Seed)
	}
	if cfg.Color != "auto" {
		t.Errorf("Expected default color mode auto, got %s", cfg.Color)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadConfig_InvalidSeed(t *testing.T) {
	t.Setenv("PETITSCHEVAUX_SEED", "lots")

	if _, err := loadConfig(); err == nil {
		t.Error("Expected error for a non-numeric seed")
	}
}

func testConfig() Config {
	return Config{ConfigDir: defaultConfigDir, Color: "never"}
}

func runCommand(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newCommand(cfg, &out).Run(context.Background(), append([]string{"petitschevaux"}, args...))
	return out.String(), err
}

func TestInitializeServices(t *testing.T) {
	svc, sessions, err := initializeServices(serviceOptions{ConfigDir: defaultConfigDir, Seed: 7})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if svc == nil || sessions == nil {
		t.Fatal("Expected game service and session manager to be initialized")
	}

	configs, err := svc.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) < 3 {
		t.Errorf("Expected at least the built-in variants, got %d", len(configs))
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, _, err := initializeServices(serviceOptions{ConfigDir: "/non/existent/path"}); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestInitializeServices_DefaultVariant(t *testing.T) {
	if _, _, err := initializeServices(serviceOptions{ConfigDir: defaultConfigDir, DefaultVariant: "nowhere"}); err == nil {
		t.Error("Expected error for an unknown default variant")
	}
	if _, _, err := initializeServices(serviceOptions{ConfigDir: defaultConfigDir, DefaultVariant: "../configs/duel"}); err == nil {
		t.Error("Expected error for a default variant outside the config directory")
	}
}

func TestRendererOptions(t *testing.T) {
	tests := []struct {
		mode    string
		want    int
		wantErr bool
	}{
		{mode: "auto", want: 0},
		{mode: "", want: 0},
		{mode: "ALWAYS", want: 1},
		{mode: "never", want: 1},
		{mode: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			opts, err := rendererOptions(tt.mode)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(opts) != tt.want {
				t.Errorf("Expected %d options, got %d", tt.want, len(opts))
			}
		})
	}
}

func TestVariantsCommand(t *testing.T) {
	out, err := runCommand(t, testConfig(), "variants")
	if err != nil {
		t.Fatalf("variants failed: %v", err)
	}

	for _, want := range []string{"ID", "classic *", "grand", "corner", "duel", "built-in", "file"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	out, err = runCommand(t, testConfig(), "--default-variant", "grand", "variants")
	if err != nil {
		t.Fatalf("variants failed: %v", err)
	}
	if !strings.Contains(out, "grand *") || strings.Contains(out, "classic *") {
		t.Errorf("Expected grand marked as default, got:\n%s", out)
	}
}

func TestVariantsCommand_Copy(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.ConfigDir = dir

	out, err := runCommand(t, cfg, "variants", "--copy", "grand", "--as", "house")
	if err != nil {
		t.Fatalf("variants --copy failed: %v", err)
	}
	if !strings.Contains(out, "Copied grand to house.json") {
		t.Errorf("Unexpected output:\n%s", out)
	}

	out, err = runCommand(t, cfg, "validate")
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "house.json") || !strings.Contains(out, "56 squares") {
		t.Errorf("Expected the copy to validate as a 56-square variant, got:\n%s", out)
	}

	if _, err := runCommand(t, cfg, "variants", "--copy", "grand", "--as", "../escape"); err == nil {
		t.Error("Expected error copying outside the config directory")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Error("Expected no file written outside the config directory")
	}
}

func TestValidateCommand(t *testing.T) {
	t.Run("config directory", func(t *testing.T) {
		out, err := runCommand(t, testConfig(), "validate")
		if err != nil {
			t.Fatalf("validate failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "duel.json") || !strings.Contains(out, "All variants are valid") {
			t.Errorf("Unexpected report:\n%s", out)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "odd.json")
		body := `{"name": "odd", "track_length": 41, "start_horses": 2, "stairway_length": 6, "colors": ["red", "green"]}`
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write variant: %v", err)
		}

		out, err := runCommand(t, testConfig(), "validate", path)
		if err == nil {
			t.Fatal("Expected validate to fail")
		}
		if !strings.Contains(out, "does not split evenly") {
			t.Errorf("Unexpected report:\n%s", out)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		out, err := runCommand(t, testConfig(), "--config-dir", t.TempDir(), "validate")
		if err != nil {
			t.Fatalf("validate failed: %v", err)
		}
		if !strings.Contains(out, "No variant files") {
			t.Errorf("Unexpected output:\n%s", out)
		}
	})
}

func TestDemoCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "default action", args: []string{"--seed", "3", "--every-step=false"}},
		{name: "demo subcommand", args: []string{"demo", "--seed", "3", "--variant", "grand"}},
		{name: "two colors", args: []string{"demo", "--seed", "5", "--variant", "duel", "--every-step=false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, testConfig(), tt.args...)
			if err != nil {
				t.Fatalf("demo failed: %v", err)
			}
			if !strings.Contains(out, "demo: ") || !strings.Contains(out, "steps played") {
				t.Errorf("Expected a summary line, got:\n%s", out)
			}
			if strings.Contains(out, "\x1b[") {
				t.Error("Expected no ANSI escapes with --color never")
			}
		})
	}
}

func TestDemoCommand_SameSeedSameGame(t *testing.T) {
	args := []string{"demo", "--seed", "11", "--every-step=false"}

	first, err := runCommand(t, testConfig(), args...)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	second, err := runCommand(t, testConfig(), args...)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	// Session IDs are random; compare everything before the summary
	trim := func(s string) string {
		lines := strings.Split(strings.TrimSpace(s), "\n")
		return strings.Join(lines[:len(lines)-1], "\n")
	}
	if trim(first) != trim(second) {
		t.Error("Expected identical games for the same seed")
	}
}

func TestDemoCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown variant", args: []string{"demo", "--variant", "nowhere"}},
		{name: "missing script", args: []string{"demo", "--script", "/non/existent.lua"}},
		{name: "bad color mode", args: []string{"demo", "--color", "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCommand(t, testConfig(), tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestDemoCommand_Script(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.lua")
	script := `local s = Scenario.new("short", "classic")
s:place("red")
s:move(0, 5)
s:note("done")
return s
`
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	out, err := runCommand(t, testConfig(), "demo", "--script", path, "--every-step=false")
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	if !strings.Contains(out, "done") || !strings.Contains(out, "short: 3 steps played, 0 refused") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestSessionsCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, testConfig(), "sessions", "--sessions-dir", dir)
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if !strings.Contains(out, "No saved games") {
		t.Errorf("Expected empty listing, got:\n%s", out)
	}

	if _, err := runCommand(t, testConfig(), "demo", "--seed", "2", "--every-step=false", "--sessions-dir", dir); err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	out, err = runCommand(t, testConfig(), "sessions", "--sessions-dir", dir)
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if !strings.Contains(out, "VARIANT") || !strings.Contains(out, "classic") {
		t.Errorf("Expected the saved demo game, got:\n%s", out)
	}
}

func TestSessionsCommand_NoDir(t *testing.T) {
	if _, err := runCommand(t, testConfig(), "sessions"); err == nil {
		t.Error("Expected error without a sessions directory")
	}
}

func TestDemoCommand_DefaultVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.lua")
	script := `local s = Scenario.new("bare")
s:place("blue")
return s
`
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	out, err := runCommand(t, testConfig(), "--default-variant", "grand", "demo", "--script", path, "--every-step=false")
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	if !strings.Contains(out, "New grand game") || !strings.Contains(out, "placed a horse on 42") {
		t.Errorf("Expected the script to play on grand, got:\n%s", out)
	}
}

// gameID extracts the game ID from the demo summary line
func gameID(t *testing.T, out string) string {
	t.Helper()
	i := strings.LastIndex(out, "(game ")
	j := strings.LastIndex(out, ")")
	if i < 0 || j < i {
		t.Fatalf("No game ID in output:\n%s", out)
	}
	return out[i+len("(game ") : j]
}

func TestSessionsCommand_Prune(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCommand(t, testConfig(), "demo", "--seed", "4", "--every-step=false", "--sessions-dir", dir); err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	out, err := runCommand(t, testConfig(), "sessions", "--sessions-dir", dir, "--prune", "24h")
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if !strings.Contains(out, "Removed 0 games") || !strings.Contains(out, "1 saved games") {
		t.Errorf("Expected the recent game to survive, got:\n%s", out)
	}

	time.Sleep(10 * time.Millisecond)
	out, err = runCommand(t, testConfig(), "sessions", "--sessions-dir", dir, "--prune", "1ms")
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if !strings.Contains(out, "Removed 1 games") || !strings.Contains(out, "No saved games") {
		t.Errorf("Expected the game to be pruned, got:\n%s", out)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no saved game files, got %v", files)
	}
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCommand(t, testConfig(), "demo", "--seed", "9", "--every-step=false", "--sessions-dir", dir)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	id := gameID(t, out)

	out, err = runCommand(t, testConfig(), "history", "--sessions-dir", dir, "--limit", "4", "--order", "asc", id)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "Game "+id) || !strings.Contains(out, "page 1 of") {
		t.Errorf("Unexpected header:\n%s", out)
	}

	// The demo opens by bringing one horse of each color out of its stable
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected header, column titles and 4 moves, got:\n%s", out)
	}
	for i, color := range []string{"red", "yellow", "green", "blue"} {
		fields := strings.Fields(lines[i+2])
		if len(fields) < 5 || fields[1] != "place" || fields[2] != color || fields[3] != "stable" {
			t.Errorf("Expected move %d to place %s, got %q", i+1, color, lines[i+2])
		}
	}
}

func TestHistoryCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{name: "no sessions directory", args: []string{"history", "abcd"}},
		{name: "missing game ID", args: []string{"history", "--sessions-dir", dir}},
		{name: "unknown game", args: []string{"history", "--sessions-dir", dir, "ffff"}},
		{name: "bad order", args: []string{"history", "--sessions-dir", dir, "--order", "sideways", "ffff"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCommand(t, testConfig(), tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
