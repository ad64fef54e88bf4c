// Package validate checks variant JSON files and reports every problem it
// finds, not just the first one. It checks:
//   - JSON structure, unknown fields and required fields
//   - Colors: between 2 and 4, known, no duplicates
//   - Track length bounds and divisibility by the number of colors
//   - Horse and stairway bounds, crossing rule
//
// Valid files also get a summary of their geometry: start square and
// stairway entry per color.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/petitschevaux/game/engine"
)

// ValidationResult captures the outcome of validating a single file
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// File loads and validates a single variant file
func File(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	checkFields(&config, &result)
	if !result.Valid {
		return result
	}

	// The engine has the final word; checkFields only explains more
	e, err := engine.NewEngine(&config)
	if err != nil {
		result.fail("%v", err)
		return result
	}
	result.Info = describe(e)
	return result
}

func checkFields(config *engine.GameConfig, result *ValidationResult) {
	if strings.TrimSpace(config.Name) == "" {
		result.fail("Missing name")
	}

	if n := len(config.Colors); n < engine.MinColors || n > engine.MaxColors {
		result.fail("Colors: need %d to %d, got %d", engine.MinColors, engine.MaxColors, n)
	}
	seen := make(map[engine.Color]bool)
	known := make(map[engine.Color]bool)
	for _, c := range engine.KnownColors {
		known[c] = true
	}
	for _, c := range config.Colors {
		if !known[c] {
			result.fail("Colors: unknown color %q", c)
		}
		if seen[c] {
			result.fail("Colors: %q listed twice", c)
		}
		seen[c] = true
	}

	if config.TrackLength < engine.MinTrackLength || config.TrackLength > engine.MaxTrackLength {
		result.fail("Track length %d outside %d..%d", config.TrackLength, engine.MinTrackLength, engine.MaxTrackLength)
	} else if n := len(config.Colors); n > 0 && config.TrackLength%n != 0 {
		result.fail("Track length %d does not split evenly between %d colors", config.TrackLength, n)
	}

	if config.StartHorses < engine.MinStartHorses || config.StartHorses > engine.MaxStartHorses {
		result.fail("Start horses %d outside %d..%d", config.StartHorses, engine.MinStartHorses, engine.MaxStartHorses)
	}
	if config.StairwayLength < engine.MinStairwayLength || config.StairwayLength > engine.MaxStairwayLength {
		result.fail("Stairway length %d outside %d..%d", config.StairwayLength, engine.MinStairwayLength, engine.MaxStairwayLength)
	}

	switch config.CrossingRule {
	case "", engine.CrossingStairway, engine.CrossingReflect:
	default:
		result.fail("Crossing rule %q is not %q or %q", config.CrossingRule, engine.CrossingStairway, engine.CrossingReflect)
	}
}

func describe(e *engine.GameEngine) []string {
	config := e.GetConfig()
	crossing := config.CrossingRule
	if crossing == "" {
		crossing = engine.CrossingStairway
	}

	info := []string{
		fmt.Sprintf("%d squares, %d colors, %d horses each, stairway of %d (%s crossing)",
			config.TrackLength, len(config.Colors), config.StartHorses, config.StairwayLength, crossing),
	}

	var starts, entries []string
	for _, c := range e.Colors() {
		start, _ := e.StartIndex(c)
		entry, _ := e.StairwayEntryIndex(c)
		starts = append(starts, fmt.Sprintf("%s %d", c, start))
		entries = append(entries, fmt.Sprintf("%s %d", c, entry))
	}
	info = append(info,
		"Starts: "+strings.Join(starts, ", "),
		"Stairway entries: "+strings.Join(entries, ", "),
	)
	return info
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Dir validates every .json file in dir, sorted by name
func Dir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("find variant files: %w", err)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Print writes a report of results to w and reports whether all were valid
func Print(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All variants are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some variants have errors")
	}
	return allValid
}
