package scenario

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/wricardo/petitschevaux/game/engine"
)

const scenarioTypeName = "scenario"

// StepKind names one scripted action
type StepKind string

const (
	StepPlace   StepKind = "place"
	StepMove    StepKind = "move"
	StepRoll    StepKind = "roll"
	StepRide    StepKind = "ride"
	StepKick    StepKind = "kick"
	StepAdvance StepKind = "advance"
	StepReset   StepKind = "reset"
	StepRender  StepKind = "render"
	StepNote    StepKind = "note"
)

// Scenario is an ordered list of steps played against one game
type Scenario struct {
	Name    string
	Variant string
	Steps   []Step
}

// Step is a single scripted action. Only the fields its Kind uses are set.
type Step struct {
	Kind     StepKind
	Color    engine.Color
	Index    int
	Distance int
	Slot     int
	Text     string
}

func (s Step) String() string {
	switch s.Kind {
	case StepPlace, StepRide:
		return fmt.Sprintf("%s %s", s.Kind, s.Color)
	case StepMove:
		return fmt.Sprintf("move %d by %d", s.Index, s.Distance)
	case StepRoll, StepKick:
		return fmt.Sprintf("%s %d", s.Kind, s.Index)
	case StepAdvance:
		return fmt.Sprintf("advance %s from slot %d on a %d", s.Color, s.Slot, s.Distance)
	case StepNote:
		return "note " + s.Text
	default:
		return string(s.Kind)
	}
}

//go:embed demo.lua
var demoScript string

// Demo returns the built-in demonstration: every color enters the track,
// then the horses race on dice rolls.
func Demo() (*Scenario, error) {
	return LoadString("demo", demoScript)
}

// LoadFile runs the Lua script at path and returns the Scenario it builds
func LoadFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := run(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadString runs Lua source and returns the Scenario it builds
func LoadString(name, source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := run(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)

	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")

	state.NewTable()
	for i, c := range engine.KnownColors {
		state.PushString(string(c))
		state.RawSetInt(-2, i+1)
	}
	state.SetGlobal("Colors")
	return state
}

// run executes the loaded chunk, which must return a Scenario
func run(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	variant := lua.OptString(state, 2, "")
	state.PushUserData(&Scenario{Name: name, Variant: variant})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "place", Function: scenarioPlace},
	{Name: "move", Function: scenarioMove},
	{Name: "roll", Function: scenarioRoll},
	{Name: "ride", Function: scenarioRide},
	{Name: "kick", Function: scenarioKick},
	{Name: "advance", Function: scenarioAdvance},
	{Name: "reset", Function: scenarioReset},
	{Name: "render", Function: scenarioRender},
	{Name: "note", Function: scenarioNote},
}

func scenarioPlace(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepPlace, Color: checkColor(state, 2)})
	return 0
}

func scenarioMove(state *lua.State) int {
	scenario := checkScenario(state)
	index := lua.CheckInteger(state, 2)
	distance := lua.CheckInteger(state, 3)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepMove, Index: index, Distance: distance})
	return 0
}

func scenarioRoll(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepRoll, Index: lua.CheckInteger(state, 2)})
	return 0
}

func scenarioRide(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepRide, Color: checkColor(state, 2)})
	return 0
}

func scenarioKick(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepKick, Index: lua.CheckInteger(state, 2)})
	return 0
}

func scenarioAdvance(state *lua.State) int {
	scenario := checkScenario(state)
	color := checkColor(state, 2)
	slot := lua.CheckInteger(state, 3)
	distance := lua.CheckInteger(state, 4)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepAdvance, Color: color, Slot: slot, Distance: distance})
	return 0
}

func scenarioReset(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepReset})
	return 0
}

func scenarioRender(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepRender})
	return 0
}

func scenarioNote(state *lua.State) int {
	scenario := checkScenario(state)
	scenario.Steps = append(scenario.Steps, Step{Kind: StepNote, Text: lua.CheckString(state, 2)})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

// checkColor accepts any case; whether the color is in play is decided at run time
func checkColor(state *lua.State, index int) engine.Color {
	name := strings.ToLower(strings.TrimSpace(lua.CheckString(state, index)))
	if name == "" {
		lua.ArgumentError(state, index, "color expected")
	}
	return engine.Color(name)
}
