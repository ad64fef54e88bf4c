package engine

// Color identifies the owner of a horse
type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"

	// Validation constants
	MinTrackLength    = 8
	MaxTrackLength    = 200
	MinColors         = 2
	MaxColors         = 4
	MinStartHorses    = 1
	MaxStartHorses    = 8
	MinStairwayLength = 1
	MaxStairwayLength = 12
)

// KnownColors lists every color the engine can seat, in the classic play order
var KnownColors = []Color{Red, Yellow, Green, Blue}

// CrossingRule selects what happens when a move overshoots the stairway entry
type CrossingRule string

const (
	// CrossingStairway applies the excess distance inside the stairway
	CrossingStairway CrossingRule = "stairway"
	// CrossingReflect turns the corner back onto the shared track
	CrossingReflect CrossingRule = "reflect"
)

// Cell is a single square of the shared track. Horses == 0 means empty.
type Cell struct {
	Color  Color `json:"color,omitempty"`
	Horses int   `json:"horses,omitempty"`
}

// Empty reports whether no horse stands on the cell
func (c Cell) Empty() bool {
	return c.Horses == 0
}

// GameConfig represents a game variant loaded from JSON
type GameConfig struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	TrackLength    int          `json:"track_length"`
	StartHorses    int          `json:"start_horses"`
	StairwayLength int          `json:"stairway_length"`
	Colors         []Color      `json:"colors"`
	CrossingRule   CrossingRule `json:"crossing_rule,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	Track       []Cell             `json:"track"`
	Stables     map[Color]int      `json:"stables"`
	Stairways   map[Color][]bool   `json:"stairways"`
	ConfigName  string             `json:"config_name"`
	Message     string             `json:"message"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
}

// Action names recorded in the move history
const (
	ActionPlace   = "place"
	ActionMove    = "move"
	ActionKick    = "kick"
	ActionAdvance = "advance"
)

// MoveHistoryEntry represents a single state change in the game history.
// From and To are track indices unless Stairway is set, in which case To
// (and From for advances) is a stairway slot.
type MoveHistoryEntry struct {
	Action     string `json:"action"`
	Color      Color  `json:"color"`
	From       int    `json:"from"`
	To         int    `json:"to"`
	Distance   int    `json:"distance,omitempty"`
	Stairway   bool   `json:"stairway,omitempty"`
	Kicked     Color  `json:"kicked,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	MoveNumber int    `json:"move_number"`
}

// MoveResult describes the outcome of MoveHorse
type MoveResult struct {
	Moved    bool   `json:"moved"`
	Color    Color  `json:"color,omitempty"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	Stairway bool   `json:"stairway,omitempty"`
	Kicked   Color  `json:"kicked,omitempty"`
	Message  string `json:"message"`
}
