package position

import "math"

// Position is a point in machine space. Units are millimetres per axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Zero is the machine origin.
var Zero = Position{}

// Axis identifies one of the three linear axes.
type Axis string

// Axis values accepted by jog and per-axis helpers.
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Valid reports whether a is one of the three known axes.
func (a Axis) Valid() bool { return a == AxisX || a == AxisY || a == AxisZ }

// Component returns the coordinate of p along axis a. Unknown axes read as 0.
func (p Position) Component(a Axis) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	case AxisZ:
		return p.Z
	default:
		return 0
	}
}

// WithComponent returns a copy of p with the coordinate along a replaced.
func (p Position) WithComponent(a Axis, v float64) Position {
	switch a {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	case AxisZ:
		p.Z = v
	}
	return p
}

// Add returns p + q componentwise.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns p - q componentwise.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns p with every component multiplied by f.
func (p Position) Scale(f float64) Position {
	return Position{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	d := p.Sub(q)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// ManhattanDistance returns the sum of absolute per-axis deltas.
func (p Position) ManhattanDistance(q Position) float64 {
	d := p.Sub(q)
	return math.Abs(d.X) + math.Abs(d.Y) + math.Abs(d.Z)
}

// Equal reports whether every component of p is within tolerance of q.
// A non-positive tolerance falls back to Epsilon.
func (p Position) Equal(q Position, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = Epsilon
	}
	return math.Abs(p.X-q.X) <= tolerance &&
		math.Abs(p.Y-q.Y) <= tolerance &&
		math.Abs(p.Z-q.Z) <= tolerance
}

// Clamp returns p with every component constrained to [min, max].
func (p Position) Clamp(min, max Position) Position {
	return Position{
		X: clamp(p.X, min.X, max.X),
		Y: clamp(p.Y, min.Y, max.Y),
		Z: clamp(p.Z, min.Z, max.Z),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WithinBounds reports whether p lies inside [min, max] on every axis.
func (p Position) WithinBounds(min, max Position) bool {
	return p.X >= min.X && p.X <= max.X &&
		p.Y >= min.Y && p.Y <= max.Y &&
		p.Z >= min.Z && p.Z <= max.Z
}

// Round returns p with every component rounded to the given number of
// decimal places.
func (p Position) Round(decimals int) Position {
	f := math.Pow(10, float64(decimals))
	return Position{
		X: math.Round(p.X*f) / f,
		Y: math.Round(p.Y*f) / f,
		Z: math.Round(p.Z*f) / f,
	}
}

// Magnitude returns the distance from the origin.
func (p Position) Magnitude() float64 { return p.Distance(Zero) }

// IsValid reports whether every component is a finite number. External input
// (telemetry, UI edits, imported configuration) must pass this check before
// it is trusted.
func (p Position) IsValid() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Bounds is an axis-aligned box, used for both the machine envelope and the
// (optionally tighter) safety zone.
type Bounds struct {
	Min Position `json:"min"`
	Max Position `json:"max"`
}

// Contains reports whether p lies inside b on every axis.
func (b Bounds) Contains(p Position) bool { return p.WithinBounds(b.Min, b.Max) }

// BoundsOf returns the componentwise min/max box spanning points. The second
// return is false when points is empty.
func BoundsOf(points []Position) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}
	return b, true
}
