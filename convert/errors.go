package convert

import "fmt"

// InvalidSequenceError reports a missing or malformed sequence.
type InvalidSequenceError struct {
	Reason string
}

func (e *InvalidSequenceError) Error() string {
	return "invalid dynamic decoupling sequence: " + e.Reason
}

// InvalidParameterError reports a call parameter outside its domain.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// UnrealizableOffsetError reports an offset that falls before the time
// already consumed on the gate lattice.
type UnrealizableOffsetError struct {
	Index       int
	Offset      float64
	TimeCovered float64
}

func (e *UnrealizableOffsetError) Error() string {
	return fmt.Sprintf("offsets cannot be placed properly: offset %d (%g) precedes covered time %g",
		e.Index, e.Offset, e.TimeCovered)
}

// MultiAxisRotationError reports a pulse that rotates about more than one
// axis at a single offset. Index is -1 when the pulse position is unknown.
type MultiAxisRotationError struct {
	Index     int
	Rabi      float64
	Azimuthal float64
	Detuning  float64
	Rotation  Rotation
}

func (e *MultiAxisRotationError) Error() string {
	at := ""
	if e.Index >= 0 {
		at = fmt.Sprintf(" at offset %d", e.Index)
	}
	return fmt.Sprintf("only one rotation axis is supported per offset; found %s%s (rabi=%g azimuthal=%g detuning=%g)",
		e.Rotation, at, e.Rabi, e.Azimuthal, e.Detuning)
}
