// Package sequence defines dynamic decoupling sequences: pulses described by
// rabi rotation, azimuthal angle and detuning rotation at offsets within a
// fixed duration.
package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every error New returns.
var ErrInvalid = errors.New("invalid dynamic decoupling sequence")

// Sequence is a dynamic decoupling sequence. Offsets, RabiRotations,
// AzimuthalAngles and DetuningRotations are aligned: index i of each
// describes the pulse at Offsets[i].
type Sequence struct {
	Name              string
	Duration          float64
	Offsets           []float64
	RabiRotations     []float64
	AzimuthalAngles   []float64
	DetuningRotations []float64
}

// New validates and builds a sequence. Nil rotation slices are read as all
// zeros.
func New(name string, duration float64, offsets, rabi, azimuthal, detuning []float64) (*Sequence, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be greater than zero, got %g", ErrInvalid, duration)
	}

	n := len(offsets)
	rabi = zerosIfNil(rabi, n)
	azimuthal = zerosIfNil(azimuthal, n)
	detuning = zerosIfNil(detuning, n)
	if len(rabi) != n || len(azimuthal) != n || len(detuning) != n {
		return nil, fmt.Errorf("%w: %d offsets but %d rabi rotations, %d azimuthal angles, %d detuning rotations",
			ErrInvalid, n, len(rabi), len(azimuthal), len(detuning))
	}

	for i, offset := range offsets {
		if offset < 0 || offset > duration {
			return nil, fmt.Errorf("%w: offset %d (%g) is outside [0, %g]", ErrInvalid, i, offset, duration)
		}
		if i > 0 && offset < offsets[i-1] {
			return nil, fmt.Errorf("%w: offset %d (%g) precedes offset %d (%g)", ErrInvalid, i, offset, i-1, offsets[i-1])
		}
	}

	return &Sequence{
		Name:              name,
		Duration:          duration,
		Offsets:           offsets,
		RabiRotations:     rabi,
		AzimuthalAngles:   azimuthal,
		DetuningRotations: detuning,
	}, nil
}

func zerosIfNil(values []float64, n int) []float64 {
	if values == nil {
		return make([]float64, n)
	}
	return values
}

// Len returns the number of pulses.
func (s *Sequence) Len() int {
	return len(s.Offsets)
}

// Aligned reports whether the four per-pulse slices share one length.
func (s *Sequence) Aligned() bool {
	n := len(s.Offsets)
	return len(s.RabiRotations) == n && len(s.AzimuthalAngles) == n && len(s.DetuningRotations) == n
}

// Pulse returns the rotation parameters of pulse i.
func (s *Sequence) Pulse(i int) (rabi, azimuthal, detuning float64) {
	return s.RabiRotations[i], s.AzimuthalAngles[i], s.DetuningRotations[i]
}

func (s *Sequence) String() string {
	var sb strings.Builder
	name := s.Name
	if name == "" {
		name = "sequence"
	}
	fmt.Fprintf(&sb, "%s: duration=%g pulses=%d", name, s.Duration, s.Len())
	for i := range s.Offsets {
		fmt.Fprintf(&sb, "\n  t=%g rabi=%g azimuthal=%g detuning=%g",
			s.Offsets[i], s.RabiRotations[i], s.AzimuthalAngles[i], s.DetuningRotations[i])
	}
	return sb.String()
}
