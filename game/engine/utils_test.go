package engine

import "testing"

func TestTrackDistance(t *testing.T) {
	tests := []struct {
		from, to, length, expected int
	}{
		{0, 5, 40, 5},
		{38, 2, 40, 4},
		{10, 10, 40, 0},
		{30, 29, 40, 39},
		{0, 55, 56, 55},
	}

	for _, tt := range tests {
		if got := TrackDistance(tt.from, tt.to, tt.length); got != tt.expected {
			t.Errorf("TrackDistance(%d, %d, %d) = %d, expected %d", tt.from, tt.to, tt.length, got, tt.expected)
		}
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct{ i, n, expected int }{
		{-1, 40, 39},
		{40, 40, 0},
		{-41, 40, 39},
		{7, 40, 7},
	}
	for _, tt := range tests {
		if got := wrapIndex(tt.i, tt.n); got != tt.expected {
			t.Errorf("wrapIndex(%d, %d) = %d, expected %d", tt.i, tt.n, got, tt.expected)
		}
	}
}

func TestCountHorses(t *testing.T) {
	state := InitGameStateFromConfig(nil)
	state.Track[3] = Cell{Color: Red, Horses: 2}
	state.Track[9] = Cell{Color: Green, Horses: 1}
	state.Stables[Red] = 0
	state.Stairways[Green][4] = true
	state.Stables[Green] = 0

	if got := CountHorsesOnTrack(state, Red); got != 2 {
		t.Errorf("Expected 2 red horses on track, got %d", got)
	}
	if got := CountHorsesInStairway(state, Green); got != 1 {
		t.Errorf("Expected 1 green horse in stairway, got %d", got)
	}
	if got := TotalHorses(state, Green); got != 2 {
		t.Errorf("Expected 2 green horses in total, got %d", got)
	}
	if got := TotalHorses(state, Blue); got != 2 {
		t.Errorf("Expected 2 blue horses in total, got %d", got)
	}
}

func TestCell_Empty(t *testing.T) {
	if !(Cell{}).Empty() {
		t.Error("Expected zero cell to be empty")
	}
	if (Cell{Color: Blue, Horses: 1}).Empty() {
		t.Error("Expected occupied cell not to be empty")
	}
}
