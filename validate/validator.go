package validate

import (
	"fmt"
	"math"

	"github.com/whttlr/jogcore/position"
	"github.com/whttlr/jogcore/wcs"
)

// Result is the outcome of an advisory check. Valid is false when Errors is
// non-empty. Soft warnings are reported as error strings as well; callers
// decide how to treat them.
type Result struct {
	Valid  bool
	Errors []string
}

func resultOf(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Options tunes a single ValidatePosition call beyond the validator's stored
// bounds.
type Options struct {
	// Bounds adds caller-supplied bounds on top of the stored ones.
	Bounds *position.Bounds
	// RejectNegative flags any negative component.
	RejectNegative bool
	// MaxMagnitude flags positions farther than this from the origin.
	// Zero disables the check.
	MaxMagnitude float64
}

// Config is a read-only snapshot of validator configuration.
type Config struct {
	MachineBounds *position.Bounds
	SafetyLimits  *position.Bounds
}

// Validator checks positions against a machine envelope and an optionally
// tighter safety zone. Both are optional; an unset bound disables its check.
type Validator struct {
	machineBounds *position.Bounds
	safetyLimits  *position.Bounds
}

// New creates a Validator. Either bounds may be nil.
func New(machineBounds, safetyLimits *position.Bounds) *Validator {
	v := &Validator{}
	v.SetMachineBounds(machineBounds)
	v.SetSafetyLimits(safetyLimits)
	return v
}

// SetMachineBounds replaces the stored machine envelope. Nil clears it.
func (v *Validator) SetMachineBounds(b *position.Bounds) {
	v.machineBounds = copyBounds(b)
}

// SetSafetyLimits replaces the stored safety zone. Nil clears it.
func (v *Validator) SetSafetyLimits(b *position.Bounds) {
	v.safetyLimits = copyBounds(b)
}

// Configuration returns a read-only snapshot of the stored bounds.
func (v *Validator) Configuration() Config {
	return Config{
		MachineBounds: copyBounds(v.machineBounds),
		SafetyLimits:  copyBounds(v.safetyLimits),
	}
}

func copyBounds(b *position.Bounds) *position.Bounds {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// ValidatePosition checks pos for finiteness, against the stored machine
// bounds and safety limits, and against any caller-supplied options. opts
// may be nil.
func (v *Validator) ValidatePosition(pos position.Position, opts *Options) Result {
	var errs []string
	if !pos.IsValid() {
		errs = append(errs, fmt.Sprintf("position contains non-finite values: %+v", pos))
		return resultOf(errs)
	}
	if v.machineBounds != nil && !v.machineBounds.Contains(pos) {
		errs = append(errs, fmt.Sprintf("position %+v outside machine bounds %+v", pos, *v.machineBounds))
	}
	if v.safetyLimits != nil && !v.safetyLimits.Contains(pos) {
		errs = append(errs, fmt.Sprintf("position %+v outside safety limits %+v", pos, *v.safetyLimits))
	}
	if opts != nil {
		if opts.Bounds != nil && !opts.Bounds.Contains(pos) {
			errs = append(errs, fmt.Sprintf("position %+v outside requested bounds %+v", pos, *opts.Bounds))
		}
		if opts.RejectNegative && (pos.X < 0 || pos.Y < 0 || pos.Z < 0) {
			errs = append(errs, fmt.Sprintf("position %+v has negative components", pos))
		}
		if opts.MaxMagnitude > 0 && pos.Magnitude() > opts.MaxMagnitude {
			errs = append(errs, fmt.Sprintf("position magnitude %.3f exceeds maximum %.3f", pos.Magnitude(), opts.MaxMagnitude))
		}
	}
	return resultOf(errs)
}

// ValidateWCSOffset checks an offset candidate for target, the work position
// it would produce at the current machine position, and flags unusually
// large offsets.
func (v *Validator) ValidateWCSOffset(offset, machinePos position.Position, target wcs.System) Result {
	var errs []string

	offRes := v.ValidatePosition(offset, nil)
	if !offRes.Valid {
		for _, e := range offRes.Errors {
			errs = append(errs, fmt.Sprintf("%s offset: %s", target, e))
		}
		return resultOf(errs)
	}

	work := machinePos.Sub(offset)
	workRes := v.ValidatePosition(work, nil)
	if !workRes.Valid {
		for _, e := range workRes.Errors {
			errs = append(errs, fmt.Sprintf("%s resulting work position: %s", target, e))
		}
	}

	if offset.Magnitude() > position.LargeOffsetThreshold {
		errs = append(errs, fmt.Sprintf("%s offset magnitude %.1f mm is unusually large (over %d mm)",
			target, offset.Magnitude(), int(position.LargeOffsetThreshold)))
	}
	return resultOf(errs)
}

// JogResult is the outcome of a jog check plus the target position the jog
// would reach.
type JogResult struct {
	Result
	Target position.Position
}

// ValidateJogMovement checks a single-axis jog of distance from current and
// returns the candidate target. Non-finite distances and unknown axes are
// rejected; jogs longer than the long-jog threshold are flagged.
func (v *Validator) ValidateJogMovement(current position.Position, distance float64, axis position.Axis) JogResult {
	var errs []string
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		errs = append(errs, fmt.Sprintf("jog distance is not finite: %v", distance))
		return JogResult{Result: resultOf(errs), Target: current}
	}
	if !axis.Valid() {
		errs = append(errs, fmt.Sprintf("unknown jog axis %q", axis))
		return JogResult{Result: resultOf(errs), Target: current}
	}

	target := current.WithComponent(axis, current.Component(axis)+distance)
	targetRes := v.ValidatePosition(target, nil)
	errs = append(errs, targetRes.Errors...)

	if math.Abs(distance) > position.LongJogThreshold {
		errs = append(errs, fmt.Sprintf("jog distance %.1f mm exceeds %d mm", distance, int(position.LongJogThreshold)))
	}
	return JogResult{Result: resultOf(errs), Target: target}
}

// ValidateCoordinateConversion sanity-checks that a conversion between in
// and out stayed within the per-axis sanity bound. kind names the conversion
// in error strings. A non-positive tolerance defaults to 0.001.
func (v *Validator) ValidateCoordinateConversion(in, out position.Position, kind string, tolerance float64) Result {
	if tolerance <= 0 {
		tolerance = 0.001
	}
	var errs []string
	if !in.IsValid() || !out.IsValid() {
		errs = append(errs, fmt.Sprintf("%s conversion has non-finite endpoints: in=%+v out=%+v", kind, in, out))
		return resultOf(errs)
	}
	if in.Equal(out, tolerance) {
		return resultOf(nil)
	}
	d := in.Sub(out)
	for _, c := range []struct {
		axis  position.Axis
		delta float64
	}{{position.AxisX, d.X}, {position.AxisY, d.Y}, {position.AxisZ, d.Z}} {
		if math.Abs(c.delta) > position.ConversionSanityBound {
			errs = append(errs, fmt.Sprintf("%s conversion moved %s by %.1f mm, over sanity bound %d mm",
				kind, c.axis, math.Abs(c.delta), int(position.ConversionSanityBound)))
		}
	}
	return resultOf(errs)
}

// ValidateSafetyZone checks pos against the stored safety limits only.
func (v *Validator) ValidateSafetyZone(pos position.Position) Result {
	var errs []string
	if !pos.IsValid() {
		errs = append(errs, fmt.Sprintf("position contains non-finite values: %+v", pos))
		return resultOf(errs)
	}
	if v.safetyLimits != nil && !v.safetyLimits.Contains(pos) {
		errs = append(errs, fmt.Sprintf("position %+v outside safety limits %+v", pos, *v.safetyLimits))
	}
	return resultOf(errs)
}

// ValidateRapidMovement flags straight-line rapid moves from from to to
// longer than maxDistance. A non-positive maxDistance defaults to the
// module's rapid-distance constant.
func (v *Validator) ValidateRapidMovement(from, to position.Position, maxDistance float64) Result {
	if maxDistance <= 0 {
		maxDistance = position.DefaultRapidDistance
	}
	var errs []string
	if !from.IsValid() || !to.IsValid() {
		errs = append(errs, fmt.Sprintf("rapid movement has non-finite endpoints: from=%+v to=%+v", from, to))
		return resultOf(errs)
	}
	if d := from.Distance(to); d > maxDistance {
		errs = append(errs, fmt.Sprintf("rapid movement of %.1f mm exceeds maximum %.1f mm", d, maxDistance))
	}
	toRes := v.ValidateSafetyZone(to)
	errs = append(errs, toRes.Errors...)
	return resultOf(errs)
}
