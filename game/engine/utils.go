package engine

// CountHorsesOnTrack counts the horses of color standing on the shared track
func CountHorsesOnTrack(state *GameState, color Color) int {
	count := 0
	for _, cell := range state.Track {
		if cell.Color == color {
			count += cell.Horses
		}
	}
	return count
}

// CountHorsesInStairway counts the occupied slots of color's stairway
func CountHorsesInStairway(state *GameState, color Color) int {
	count := 0
	for _, occupied := range state.Stairways[color] {
		if occupied {
			count++
		}
	}
	return count
}

// TotalHorses counts every horse of color: stable, track and stairway
func TotalHorses(state *GameState, color Color) int {
	return state.Stables[color] + CountHorsesOnTrack(state, color) + CountHorsesInStairway(state, color)
}

// TrackDistance returns the forward distance from one cell to another on a
// ring of trackLength cells
func TrackDistance(from, to, trackLength int) int {
	return wrapIndex(to-from, trackLength)
}

// wrapIndex maps any integer onto [0, n)
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
