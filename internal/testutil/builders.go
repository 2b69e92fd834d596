package testutil

import (
	"fmt"

	"github.com/whttlr/jogcore/position"
)

// Pos builds a Position tersely.
func Pos(x, y, z float64) position.Position {
	return position.Position{X: x, Y: y, Z: z}
}

// Box builds Bounds spanning [lo, hi] on every axis.
func Box(lo, hi float64) *position.Bounds {
	return &position.Bounds{Min: Pos(lo, lo, lo), Max: Pos(hi, hi, hi)}
}

// StatusLine renders a controller status line carrying MPos and, when work
// is non-nil, WPos.
func StatusLine(state string, machine position.Position, work *position.Position) string {
	s := fmt.Sprintf("<%s|MPos:%.3f,%.3f,%.3f", state, machine.X, machine.Y, machine.Z)
	if work != nil {
		s += fmt.Sprintf("|WPos:%.3f,%.3f,%.3f", work.X, work.Y, work.Z)
	}
	return s + ">"
}
