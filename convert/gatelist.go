package convert

import (
	"fmt"
	"math"
)

// Slot is one entry of a gate list: either Delay or PulseSlot.
type Slot interface {
	slot()
}

// Delay is one gate-time unit of idling, realized as an identity gate.
type Delay struct{}

// PulseSlot is the position of pulse Index of the sequence.
type PulseSlot struct {
	Index     int
	Offset    float64
	Selection Selection // set by BuildPlan; zero value from BuildGateList
}

func (Delay) slot()     {}
func (PulseSlot) slot() {}

// BuildGateList lays the offsets on a lattice of gateTime-long delays.
//
// It walks the offsets once, tracking the time covered so far. A distance
// within Tolerance of zero is treated as exactly zero. A pulse placed at zero
// distance that has zero strength covers no time; every other pulse covers
// unitaryTime. A positive distance is filled with as many whole delays as fit
// at or before the offset. It returns the list and the final covered time.
func BuildGateList(offsets []float64, zeroStrength []bool, gateTime, unitaryTime float64) ([]Slot, float64, error) {
	if gateTime <= 0 {
		return nil, 0, &InvalidParameterError{Param: "gate_time", Value: gateTime, Reason: "must be greater than 0"}
	}
	if unitaryTime < 0 {
		return nil, 0, &InvalidParameterError{Param: "unitary_time", Value: unitaryTime, Reason: "must not be negative"}
	}
	if len(zeroStrength) != len(offsets) {
		return nil, 0, &InvalidSequenceError{
			Reason: fmt.Sprintf("%d offsets but %d strength flags", len(offsets), len(zeroStrength)),
		}
	}

	timeCovered := 0.0
	slots := make([]Slot, 0, len(offsets))
	for i, offset := range offsets {
		if math.IsNaN(offset) || math.IsInf(offset, 0) {
			return nil, 0, &InvalidSequenceError{Reason: fmt.Sprintf("offset %d is %g", i, offset)}
		}

		distance := offset - timeCovered
		if isZero(distance) {
			distance = 0
		}

		switch {
		case distance < 0:
			return nil, 0, &UnrealizableOffsetError{Index: i, Offset: offset, TimeCovered: timeCovered}
		case distance == 0:
			slots = append(slots, PulseSlot{Index: i, Offset: offset})
			if zeroStrength[i] {
				timeCovered = offset
			} else {
				timeCovered = offset + unitaryTime
			}
		default:
			for k := 0; timeCovered+float64(k+1)*gateTime <= offset; k++ {
				slots = append(slots, Delay{})
			}
			slots = append(slots, PulseSlot{Index: i, Offset: offset})
			timeCovered = offset + unitaryTime
		}
	}

	return slots, timeCovered, nil
}

// Plan is the decoded gate list of one sequence, ready to be emitted.
type Plan struct {
	Slots       []Slot
	TimeCovered float64
	Delays      int
	Pulses      int
}

// BuildPlan builds the gate list for aligned pulse slices and decodes every
// pulse into its elementary gate. Nothing is emitted, so a
// failure here leaves no partial circuit behind.
func BuildPlan(offsets, rabi, azimuthal, detuning []float64, gateTime, unitaryTime float64) (*Plan, error) {
	n := len(offsets)
	if len(rabi) != n || len(azimuthal) != n || len(detuning) != n {
		return nil, &InvalidSequenceError{
			Reason: fmt.Sprintf("%d offsets but %d rabi rotations, %d azimuthal angles, %d detuning rotations",
				n, len(rabi), len(azimuthal), len(detuning)),
		}
	}

	zeroStrength := make([]bool, n)
	for i := range offsets {
		zeroStrength[i] = NewRotation(rabi[i], azimuthal[i], detuning[i]).IsZero()
	}

	slots, timeCovered, err := BuildGateList(offsets, zeroStrength, gateTime, unitaryTime)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Slots: slots, TimeCovered: timeCovered}
	for j, s := range slots {
		pulse, ok := s.(PulseSlot)
		if !ok {
			plan.Delays++
			continue
		}
		sel, err := decomposePulse(pulse.Index, rabi[pulse.Index], azimuthal[pulse.Index], detuning[pulse.Index])
		if err != nil {
			return nil, err
		}
		pulse.Selection = sel
		slots[j] = pulse
		plan.Pulses++
	}
	return plan, nil
}
