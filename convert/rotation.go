package convert

import (
	"fmt"
	"math"
)

// Tolerance is the absolute tolerance for every "is approximately zero"
// comparison: offset-distance snapping, axis activity and pulse strength.
const Tolerance = 1e-8

func isZero(v float64) bool {
	return math.Abs(v) <= Tolerance
}

// Axis is the elementary rotation axis selected for a pulse.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "none"
	}
}

// Rotation is a pulse expressed as Cartesian rotation angles.
type Rotation struct {
	X, Y, Z float64
}

// NewRotation converts (rabi, azimuthal, detuning) into Cartesian rotation
// angles: x = rabi*cos(azimuthal), y = rabi*sin(azimuthal), z = detuning.
func NewRotation(rabi, azimuthal, detuning float64) Rotation {
	return Rotation{
		X: rabi * math.Cos(azimuthal),
		Y: rabi * math.Sin(azimuthal),
		Z: detuning,
	}
}

// ActiveAxes counts the components outside Tolerance of zero.
func (r Rotation) ActiveAxes() int {
	n := 0
	for _, v := range [3]float64{r.X, r.Y, r.Z} {
		if !isZero(v) {
			n++
		}
	}
	return n
}

// IsZero reports whether the rotation has no active axis.
func (r Rotation) IsZero() bool {
	return r.ActiveAxes() == 0
}

func (r Rotation) String() string {
	return fmt.Sprintf("(x=%g, y=%g, z=%g)", r.X, r.Y, r.Z)
}

// Selection is the elementary gate chosen for one pulse.
type Selection struct {
	Axis  Axis
	Angle float64
}

// U3Params returns the u3(theta, phi, lambda) parameters realizing an X or Y
// rotation, or the zero rotation for AxisNone. Z rotations are realized as
// u1(Angle) instead.
func (s Selection) U3Params() (theta, phi, lambda float64) {
	switch s.Axis {
	case AxisX:
		return s.Angle, -math.Pi / 2, math.Pi / 2
	case AxisY:
		return s.Angle, 0, 0
	default:
		return 0, 0, 0
	}
}

// apply writes the selected gate for one qubit.
func (s Selection) apply(sink Sink, qubit int) {
	if s.Axis == AxisZ {
		sink.U1(qubit, s.Angle)
		return
	}
	theta, phi, lambda := s.U3Params()
	sink.U3(qubit, theta, phi, lambda)
}

// Decompose selects the elementary gate for a single pulse. It fails with
// *MultiAxisRotationError when more than one axis is active.
func Decompose(rabi, azimuthal, detuning float64) (Selection, error) {
	return decomposePulse(-1, rabi, azimuthal, detuning)
}

func decomposePulse(index int, rabi, azimuthal, detuning float64) (Selection, error) {
	r := NewRotation(rabi, azimuthal, detuning)
	if r.ActiveAxes() > 1 {
		return Selection{}, &MultiAxisRotationError{
			Index:     index,
			Rabi:      rabi,
			Azimuthal: azimuthal,
			Detuning:  detuning,
			Rotation:  r,
		}
	}

	switch {
	case !isZero(r.X):
		return Selection{Axis: AxisX, Angle: r.X}, nil
	case !isZero(r.Y):
		return Selection{Axis: AxisY, Angle: r.Y}, nil
	case !isZero(r.Z):
		return Selection{Axis: AxisZ, Angle: r.Z}, nil
	default:
		return Selection{Axis: AxisNone}, nil
	}
}
