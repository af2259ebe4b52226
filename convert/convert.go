// Package convert turns a dynamic decoupling sequence into an ordered list of
// single-qubit gate operations.
//
// Idle time between pulses is filled with identity gates of a fixed gate
// time, and each pulse becomes one elementary rotation: u3 for X and Y
// rotations, u1 for Z rotations. The result approximates the idealized
// instantaneous-pulse sequence under one of two timing models: pulses that
// take one gate time (FixedDurationUnitary) or none (InstantUnitary).
// Sequences that rotate about more than one axis at an offset are rejected.
package convert

import (
	"go.uber.org/zap"

	"ddcirq/circuit"
	"ddcirq/sequence"
)

// Sink receives the operations of a conversion.
type Sink interface {
	AddQuantumRegister(reg circuit.QuantumRegister)
	AddClassicalRegister(reg circuit.ClassicalRegister)
	SetName(name string)
	U3(qubit int, theta, phi, lambda float64)
	U1(qubit int, lambda float64)
	ID(qubit int)
	Barrier(qubits ...int)
	Measure(qubit, cbit int)
}

var _ Sink = (*circuit.Circuit)(nil)

// Convert builds a new circuit from seq.
func Convert(seq *sequence.Sequence, opts ...Option) (*circuit.Circuit, error) {
	c := circuit.New()
	if err := ConvertInto(c, seq, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// ConvertInto validates every input, plans the whole gate list and only then
// writes it to sink. On error nothing has been written.
func ConvertInto(sink Sink, seq *sequence.Sequence, opts ...Option) error {
	cfg := NewConfig(opts...)

	asm, err := prepare(sink, seq, cfg)
	if err != nil {
		cfg.Logger.Debug("sequence rejected", zap.Error(err))
		return err
	}
	asm.emit()

	cfg.Logger.Debug("converted sequence",
		zap.String("sequence", seq.Name),
		zap.Int("pulses", asm.plan.Pulses),
		zap.Int("delays", asm.plan.Delays),
		zap.Float64("time_covered", asm.plan.TimeCovered),
		zap.Ints("target_qubits", cfg.TargetQubits),
		zap.String("algorithm", string(cfg.Algorithm)),
	)
	return nil
}

// assembly is one validated conversion.
type assembly struct {
	sink  Sink
	cfg   Config
	plan  *Plan
	qreg  circuit.QuantumRegister
	creg  *circuit.ClassicalRegister
	theta float64
	phi   float64
	lam   float64
}

func prepare(sink Sink, seq *sequence.Sequence, cfg Config) (*assembly, error) {
	if seq == nil {
		return nil, &InvalidSequenceError{Reason: "no dynamic decoupling sequence provided"}
	}
	if !seq.Aligned() {
		return nil, &InvalidSequenceError{
			Reason: "offsets, rabi rotations, azimuthal angles and detuning rotations differ in length",
		}
	}
	if sink == nil {
		return nil, &InvalidParameterError{Param: "sink", Value: nil, Reason: "no circuit sink provided"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plan, err := BuildPlan(seq.Offsets, seq.RabiRotations, seq.AzimuthalAngles, seq.DetuningRotations,
		cfg.GateTime, cfg.Algorithm.UnitaryTime(cfg.GateTime))
	if err != nil {
		return nil, err
	}

	asm := &assembly{
		sink:  sink,
		cfg:   cfg,
		plan:  plan,
		theta: cfg.PrePostGateParameters[0],
		phi:   cfg.PrePostGateParameters[1],
		lam:   cfg.PrePostGateParameters[2],
	}

	if cfg.QuantumRegister != nil {
		asm.qreg = *cfg.QuantumRegister
	} else {
		maxQubit := 0
		for _, q := range cfg.TargetQubits {
			maxQubit = max(maxQubit, q)
		}
		asm.qreg = circuit.QuantumRegister{Name: "q", Size: maxQubit + 1}
	}

	if cfg.AddMeasurement {
		if cfg.ClassicalRegister != nil {
			creg := *cfg.ClassicalRegister
			asm.creg = &creg
		} else {
			asm.creg = &circuit.ClassicalRegister{Name: "c", Size: len(cfg.TargetQubits)}
		}
	}
	return asm, nil
}

func (a *assembly) emit() {
	targets := a.cfg.TargetQubits

	a.sink.AddQuantumRegister(a.qreg)
	if a.creg != nil {
		a.sink.AddClassicalRegister(*a.creg)
	}
	if a.cfg.CircuitName != "" {
		a.sink.SetName(a.cfg.CircuitName)
	}

	for _, q := range targets {
		a.sink.U3(q, a.theta, a.phi, a.lam)
		a.sink.Barrier(q)
	}

	for _, s := range a.plan.Slots {
		switch s := s.(type) {
		case Delay:
			for _, q := range targets {
				a.sink.ID(q)
				a.sink.Barrier(q)
			}
		case PulseSlot:
			for _, q := range targets {
				s.Selection.apply(a.sink, q)
				a.sink.Barrier(q)
			}
		}
	}

	register := make([]int, a.qreg.Size)
	for q := range register {
		register[q] = q
	}
	for _, q := range targets {
		a.sink.U3(q, a.theta, a.phi, a.lam)
		a.sink.Barrier(register...)
	}

	if a.creg != nil {
		for cbit, q := range targets {
			a.sink.Measure(q, cbit)
		}
	}
}
