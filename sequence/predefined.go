package sequence

import (
	"fmt"
	"math"
)

// Kind names a predefined sequence.
type Kind string

const (
	Ramsey      Kind = "ramsey"
	SpinEcho    Kind = "spin_echo"
	CarrPurcell Kind = "carr_purcell"
	CPMG        Kind = "cpmg"
	Uhrig       Kind = "uhrig"
	Periodic    Kind = "periodic"
	XY4         Kind = "xy4"
)

// Kinds lists the predefined sequences in display order.
func Kinds() []Kind {
	return []Kind{Ramsey, SpinEcho, CarrPurcell, CPMG, Uhrig, Periodic, XY4}
}

// Predefined builds a standard sequence of the given kind. pulses is the
// number of pi pulses for carr_purcell, cpmg, uhrig and periodic, and the
// number of four-pulse cycles for xy4; ramsey and spin_echo ignore it.
func Predefined(kind Kind, duration float64, pulses int) (*Sequence, error) {
	needsPulses := kind != Ramsey && kind != SpinEcho
	if needsPulses && pulses < 1 {
		return nil, fmt.Errorf("%w: %s needs at least one pulse, got %d", ErrInvalid, kind, pulses)
	}

	var offsets, azimuthal []float64
	switch kind {
	case Ramsey:
		return New(string(kind), duration, nil, nil, nil, nil)
	case SpinEcho:
		offsets = []float64{duration / 2}
		azimuthal = []float64{0}
	case CarrPurcell, CPMG:
		phase := 0.0
		if kind == CPMG {
			phase = math.Pi / 2
		}
		for k := 1; k <= pulses; k++ {
			offsets = append(offsets, duration*float64(2*k-1)/float64(2*pulses))
			azimuthal = append(azimuthal, phase)
		}
	case Uhrig:
		for k := 1; k <= pulses; k++ {
			s := math.Sin(math.Pi * float64(k) / float64(2*pulses+2))
			offsets = append(offsets, duration*s*s)
			azimuthal = append(azimuthal, math.Pi/2)
		}
	case Periodic:
		for k := 1; k <= pulses; k++ {
			offsets = append(offsets, duration*float64(k)/float64(pulses+1))
			azimuthal = append(azimuthal, 0)
		}
	case XY4:
		total := 4 * pulses
		for k := 1; k <= total; k++ {
			offsets = append(offsets, duration*float64(2*k-1)/float64(2*total))
			if k%2 == 1 {
				azimuthal = append(azimuthal, 0)
			} else {
				azimuthal = append(azimuthal, math.Pi/2)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalid, kind)
	}

	rabi := make([]float64, len(offsets))
	for i := range rabi {
		rabi[i] = math.Pi
	}
	return New(string(kind), duration, offsets, rabi, azimuthal, nil)
}
