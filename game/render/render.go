// Package render draws a board as a fixed-width text grid. It only reads the
// board through the Board interface and never mutates it.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wricardo/petitschevaux/game/engine"
)

// DefaultRowWidth is the number of track cells printed per row
const DefaultRowWidth = 10

// Board is the read-only view a renderer needs
type Board interface {
	TrackLength() int
	StairwayLength() int
	Colors() []engine.Color
	Occupant(index int) (engine.Color, int)
	StableCount(color engine.Color) int
	StairwaySlot(color engine.Color, slot int) bool
	StartIndex(color engine.Color) (int, error)
}

var ansiBackground = map[engine.Color]string{
	engine.Red:    "\x1b[41m",
	engine.Yellow: "\x1b[43m",
	engine.Green:  "\x1b[42m",
	engine.Blue:   "\x1b[44m",
}

const ansiReset = "\x1b[0m"

// Renderer writes boards to an io.Writer
type Renderer struct {
	w        io.Writer
	color    bool
	rowWidth int
	title    cases.Caser
}

// Option configures a Renderer
type Option func(*Renderer)

// WithColor forces ANSI color markers on or off
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// WithRowWidth sets how many track cells go on one row
func WithRowWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.rowWidth = n
		}
	}
}

// New creates a renderer. Color markers default to on when w is a terminal.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:        w,
		color:    IsTerminal(w),
		rowWidth: DefaultRowWidth,
		title:    cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsTerminal reports whether w is a terminal that understands ANSI colors
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render draws the track, stables and stairways of board
func (r *Renderer) Render(board Board) error {
	var b strings.Builder

	starts := make(map[int]engine.Color)
	for _, c := range board.Colors() {
		if idx, err := board.StartIndex(c); err == nil {
			starts[idx] = c
		}
	}

	fmt.Fprintf(&b, "Track (%d squares)\n", board.TrackLength())
	for row := 0; row < board.TrackLength(); row += r.rowWidth {
		fmt.Fprintf(&b, "%4d ", row)
		for i := row; i < row+r.rowWidth && i < board.TrackLength(); i++ {
			b.WriteString(r.cell(board, i, starts))
		}
		b.WriteString("\n")
	}

	b.WriteString("Stables:  ")
	for i, c := range board.Colors() {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%s %d", r.Label(c), board.StableCount(c))
	}
	b.WriteString("\n")

	b.WriteString("Stairways:\n")
	for _, c := range board.Colors() {
		fmt.Fprintf(&b, "  %-7s ", r.Label(c))
		for slot := 0; slot < board.StairwayLength(); slot++ {
			if board.StairwaySlot(c, slot) {
				b.WriteString(r.paint(c, "["+Marker(c)+" ]"))
			} else {
				b.WriteString("[  ]")
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// Label returns the display name of a color
func (r *Renderer) Label(c engine.Color) string {
	return r.title.String(string(c))
}

// Marker returns the single-letter marker of a color
func Marker(c engine.Color) string {
	if c == "" {
		return " "
	}
	return strings.ToUpper(string(c)[:1])
}

// cell renders one four-character track cell: [R ] for a horse, [R3] for a
// stack, [r ] for an empty start square and [  ] for an empty square.
func (r *Renderer) cell(board Board, index int, starts map[int]engine.Color) string {
	color, horses := board.Occupant(index)
	if horses == 0 {
		if owner, ok := starts[index]; ok {
			return "[" + strings.ToLower(Marker(owner)) + " ]"
		}
		return "[  ]"
	}

	count := " "
	switch {
	case horses > 9:
		count = "+"
	case horses > 1:
		count = fmt.Sprintf("%d", horses)
	}
	return r.paint(color, "["+Marker(color)+count+"]")
}

func (r *Renderer) paint(c engine.Color, s string) string {
	if !r.color {
		return s
	}
	code, ok := ansiBackground[c]
	if !ok {
		return s
	}
	return code + s + ansiReset
}
