package engine

import (
	"fmt"
	"time"
)

// PlaceHorse takes a horse of color out of its stable and puts it on the
// color's start square. Whatever stood there is kicked first, own color
// included.
func (e *GameEngine) PlaceHorse(color Color) error {
	start, err := e.StartIndex(color)
	if err != nil {
		return err
	}

	// A horse of the same color on the start square goes back to the stable
	// before the placement, so it counts as available.
	available := e.state.Stables[color]
	if cell := e.state.Track[start]; !cell.Empty() && cell.Color == color {
		available += cell.Horses
	}
	if available <= 0 {
		return fmt.Errorf("%w: %s", ErrStableEmpty, color)
	}

	kicked := e.kick(start)
	e.state.Track[start] = Cell{Color: color, Horses: 1}
	e.state.Stables[color]--

	e.state.Message = fmt.Sprintf("%s placed a horse on %d", color, start)
	if kicked != "" && kicked != color {
		e.state.Message += fmt.Sprintf(", kicking %s", kicked)
	}
	e.state.AddMoveToHistory(MoveHistoryEntry{
		Action: ActionPlace,
		Color:  color,
		From:   -1,
		To:     start,
		Kicked: kicked,
	})
	return nil
}

// MoveHorse advances the horse standing on index by distance. An empty
// origin is a no-op that reports Moved == false.
func (e *GameEngine) MoveHorse(index, distance int) (*MoveResult, error) {
	if !e.inTrack(index) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if distance < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDistance, distance)
	}

	cell := e.state.Track[index]
	if cell.Empty() {
		return &MoveResult{
			From:    index,
			To:      index,
			Message: fmt.Sprintf("No horse on %d", index),
		}, nil
	}

	color := cell.Color
	entry, err := e.StairwayEntryIndex(color)
	if err != nil {
		return nil, err
	}

	// Crossing is measured along the ring so a move that wraps past 0 still
	// turns into the stairway.
	toEntry := TrackDistance(index, entry, e.config.TrackLength)
	switch {
	case index == entry:
		return e.enterStairway(color, index, distance, distance-1)

	case toEntry < distance:
		overshoot := distance - toEntry
		if e.crossingRule() == CrossingReflect {
			return e.landOnTrack(color, index, wrapIndex(entry-overshoot, e.config.TrackLength), distance)
		}
		return e.enterStairway(color, index, distance, overshoot-1)

	default:
		return e.landOnTrack(color, index, (index+distance)%e.config.TrackLength, distance)
	}
}

// KickHorse sends the horses on index back to their stable and returns
// their color. Kicking an empty cell returns "" and changes nothing.
func (e *GameEngine) KickHorse(index int) (Color, error) {
	if !e.inTrack(index) {
		return "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	kicked := e.kick(index)
	if kicked == "" {
		return "", nil
	}

	e.state.Message = fmt.Sprintf("%s kicked back to the stable from %d", kicked, index)
	e.state.AddMoveToHistory(MoveHistoryEntry{
		Action: ActionKick,
		Color:  kicked,
		From:   index,
		To:     -1,
		Kicked: kicked,
	})
	return kicked, nil
}

// AdvanceInStairway moves a horse already in color's stairway from slot to
// slot distance-1. Like the entry move, the roll counts from the stairway
// entry, so the target must lie beyond slot.
func (e *GameEngine) AdvanceInStairway(color Color, slot, distance int) error {
	if _, ok := e.ranks[color]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColor, color)
	}
	if distance < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDistance, distance)
	}

	stairway := e.state.Stairways[color]
	if slot < 0 || slot >= len(stairway) {
		return fmt.Errorf("%w: stairway slot %d", ErrIndexOutOfRange, slot)
	}
	if !stairway[slot] {
		return fmt.Errorf("%w: %s slot %d", ErrStairwaySlotEmpty, color, slot)
	}

	target := distance - 1
	if target >= len(stairway) {
		return fmt.Errorf("%w: %s needs slot %d, stairway has %d", ErrStairwayOverflow, color, target, len(stairway))
	}
	if target <= slot {
		return fmt.Errorf("%w: %s rolled %d from slot %d", ErrStairwayNoProgress, color, distance, slot)
	}
	if stairway[target] {
		return fmt.Errorf("%w: %s slot %d", ErrStairwaySlotTaken, color, target)
	}

	stairway[slot] = false
	stairway[target] = true

	e.state.Message = fmt.Sprintf("%s climbed its stairway from slot %d to %d", color, slot, target)
	e.state.AddMoveToHistory(MoveHistoryEntry{
		Action:   ActionAdvance,
		Color:    color,
		From:     slot,
		To:       target,
		Distance: distance,
		Stairway: true,
	})
	return nil
}

// enterStairway moves the horse on index into slot of its color's stairway
func (e *GameEngine) enterStairway(color Color, index, distance, slot int) (*MoveResult, error) {
	stairway := e.state.Stairways[color]
	if slot >= len(stairway) {
		return nil, fmt.Errorf("%w: %s needs slot %d, stairway has %d", ErrStairwayOverflow, color, slot, len(stairway))
	}
	if stairway[slot] {
		return nil, fmt.Errorf("%w: %s slot %d", ErrStairwaySlotTaken, color, slot)
	}

	e.release(index)
	stairway[slot] = true

	result := &MoveResult{
		Moved:    true,
		Color:    color,
		From:     index,
		To:       slot,
		Stairway: true,
		Message:  fmt.Sprintf("%s entered its stairway at slot %d", color, slot),
	}
	e.state.Message = result.Message
	e.state.AddMoveToHistory(MoveHistoryEntry{
		Action:   ActionMove,
		Color:    color,
		From:     index,
		To:       slot,
		Distance: distance,
		Stairway: true,
	})
	return result, nil
}

// landOnTrack moves one horse from index to dest on the shared track,
// kicking an opposing occupant of dest. Same-color horses stack.
func (e *GameEngine) landOnTrack(color Color, index, dest, distance int) (*MoveResult, error) {
	e.release(index)

	var kicked Color
	if target := e.state.Track[dest]; !target.Empty() && target.Color != color {
		kicked = e.kick(dest)
	}
	e.state.Track[dest].Color = color
	e.state.Track[dest].Horses++

	result := &MoveResult{
		Moved:   true,
		Color:   color,
		From:    index,
		To:      dest,
		Kicked:  kicked,
		Message: fmt.Sprintf("%s moved from %d to %d", color, index, dest),
	}
	if kicked != "" {
		result.Message += fmt.Sprintf(", kicking %s", kicked)
	}
	e.state.Message = result.Message
	e.state.AddMoveToHistory(MoveHistoryEntry{
		Action:   ActionMove,
		Color:    color,
		From:     index,
		To:       dest,
		Distance: distance,
		Kicked:   kicked,
	})
	return result, nil
}

// kick empties index and returns its horses to their stable
func (e *GameEngine) kick(index int) Color {
	cell := e.state.Track[index]
	if cell.Empty() {
		return ""
	}
	e.state.Track[index] = Cell{}
	e.state.Stables[cell.Color] += cell.Horses
	return cell.Color
}

// release takes one horse off index
func (e *GameEngine) release(index int) {
	cell := &e.state.Track[index]
	cell.Horses--
	if cell.Horses <= 0 {
		*cell = Cell{}
	}
}

func (e *GameEngine) crossingRule() CrossingRule {
	if e.config.CrossingRule == "" {
		return CrossingStairway
	}
	return e.config.CrossingRule
}

// AddMoveToHistory adds an action to the game's history
func (gs *GameState) AddMoveToHistory(entry MoveHistoryEntry) {
	entry.Timestamp = time.Now().Unix()
	entry.MoveNumber = gs.TotalMoves + 1
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++
}
