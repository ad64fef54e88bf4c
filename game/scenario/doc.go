// Package scenario loads scripted games written in Lua and plays them
// through the game service.
//
// A script builds a Scenario and returns it:
//
//	local s = Scenario.new("opening", "classic")
//	s:place("red")
//	s:move(0, 4)
//	s:roll(4)
//	s:render()
//	return s
//
// Methods record steps; nothing touches a board until a Runner plays the
// scenario. Available methods are place(color), move(index, distance),
// roll(index), ride(color), kick(index), advance(color, slot, distance),
// reset(), render() and note(text). The global Colors table lists every
// color in seating order.
package scenario
