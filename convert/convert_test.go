package convert

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ddcirq/circuit"
	"ddcirq/sequence"
)

// recorder is a Sink that logs every call as a line of text.
type recorder struct {
	calls []string
}

func (r *recorder) AddQuantumRegister(reg circuit.QuantumRegister) {
	r.calls = append(r.calls, fmt.Sprintf("qreg %s[%d]", reg.Name, reg.Size))
}

func (r *recorder) AddClassicalRegister(reg circuit.ClassicalRegister) {
	r.calls = append(r.calls, fmt.Sprintf("creg %s[%d]", reg.Name, reg.Size))
}

func (r *recorder) SetName(name string) {
	r.calls = append(r.calls, "name "+name)
}

func (r *recorder) U3(qubit int, theta, phi, lambda float64) {
	r.calls = append(r.calls, fmt.Sprintf("u3(%s,%s,%s) %d",
		circuit.FormatParam(theta), circuit.FormatParam(phi), circuit.FormatParam(lambda), qubit))
}

func (r *recorder) U1(qubit int, lambda float64) {
	r.calls = append(r.calls, fmt.Sprintf("u1(%s) %d", circuit.FormatParam(lambda), qubit))
}

func (r *recorder) ID(qubit int) {
	r.calls = append(r.calls, fmt.Sprintf("id %d", qubit))
}

func (r *recorder) Barrier(qubits ...int) {
	r.calls = append(r.calls, fmt.Sprintf("barrier %v", qubits))
}

func (r *recorder) Measure(qubit, cbit int) {
	r.calls = append(r.calls, fmt.Sprintf("measure %d->%d", qubit, cbit))
}

func mustSequence(t *testing.T, offsets, rabi, azimuthal, detuning []float64) *sequence.Sequence {
	t.Helper()
	seq, err := sequence.New("test", 1, offsets, rabi, azimuthal, detuning)
	require.NoError(t, err)
	return seq
}

func TestConvertSinglePulseAtZero(t *testing.T) {
	seq := mustSequence(t, []float64{0}, []float64{math.Pi}, []float64{0}, []float64{0})

	rec := &recorder{}
	err := ConvertInto(rec, seq,
		WithGateTime(0.1),
		WithAlgorithm(FixedDurationUnitary),
		WithTargetQubits(0),
		WithMeasurement(true),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"qreg q[1]",
		"creg c[1]",
		"u3(pi/2,-pi/2,pi/2) 0",
		"barrier [0]",
		"u3(pi,-pi/2,pi/2) 0",
		"barrier [0]",
		"u3(pi/2,-pi/2,pi/2) 0",
		"barrier [0]",
		"measure 0->0",
	}, rec.calls)
}

func TestConvertZeroStrengthPulseAfterGap(t *testing.T) {
	seq := mustSequence(t, []float64{0.25}, []float64{0}, []float64{0}, []float64{0})

	rec := &recorder{}
	require.NoError(t, ConvertInto(rec, seq, WithMeasurement(false)))

	assert.Equal(t, []string{
		"qreg q[1]",
		"u3(pi/2,-pi/2,pi/2) 0",
		"barrier [0]",
		"id 0",
		"barrier [0]",
		"id 0",
		"barrier [0]",
		"u3(0,0,0) 0",
		"barrier [0]",
		"u3(pi/2,-pi/2,pi/2) 0",
		"barrier [0]",
	}, rec.calls)
}

func TestConvertBuildsCircuit(t *testing.T) {
	seq, err := sequence.Predefined(sequence.SpinEcho, 1, 0)
	require.NoError(t, err)

	c, err := Convert(seq, WithTargetQubits(1, 3), WithCircuitName("echo"), WithGateTime(0.25))
	require.NoError(t, err)

	assert.Equal(t, "echo", c.Name)
	assert.Equal(t, circuit.QuantumRegister{Name: "q", Size: 4}, c.QReg)
	require.NotNil(t, c.CReg)
	assert.Equal(t, 2, c.CReg.Size)

	// pulse at 0.5 with gate time 0.25: two delays per qubit
	assert.Equal(t, 4, c.Count(circuit.TypeID))
	// pre and post per qubit plus one pulse per qubit
	assert.Equal(t, 6, c.Count(circuit.TypeU3))

	ops := c.Ops()
	last := ops[len(ops)-2:]
	assert.Equal(t, circuit.TypeMeasure, last[0].Type)
	assert.Equal(t, []int{1}, last[0].Qubits)
	assert.Equal(t, 0, last[0].Cbit)
	assert.Equal(t, []int{3}, last[1].Qubits)
	assert.Equal(t, 1, last[1].Cbit)

	qasm := c.ToQASM()
	assert.Contains(t, qasm, "barrier q[0], q[1], q[2], q[3];")
	assert.Contains(t, qasm, "u3(pi, -pi/2, pi/2) q[3];")
	assert.Contains(t, qasm, "measure q[3] -> c[1];")
}

func TestConvertPulseAxes(t *testing.T) {
	seq := mustSequence(t,
		[]float64{0.25, 0.5, 0.75},
		[]float64{math.Pi, math.Pi, 0},
		[]float64{0, math.Pi / 2, 0},
		[]float64{0, 0, math.Pi},
	)

	rec := &recorder{}
	require.NoError(t, ConvertInto(rec, seq, WithAlgorithm(InstantUnitary), WithGateTime(0.25), WithMeasurement(false)))

	got := strings.Join(rec.calls, "\n")
	assert.Contains(t, got, "u3(pi,-pi/2,pi/2) 0")
	assert.Contains(t, got, "u3(pi,0,0) 0")
	assert.Contains(t, got, "u1(pi) 0")
	assert.Equal(t, 3, strings.Count(got, "id 0"))
}

func TestConvertAlgorithmChangesDelays(t *testing.T) {
	seq := mustSequence(t, []float64{0, 0.5}, []float64{math.Pi, math.Pi}, nil, nil)

	fixed, err := Convert(seq, WithGateTime(0.25), WithAlgorithm(FixedDurationUnitary))
	require.NoError(t, err)
	instant, err := Convert(seq, WithGateTime(0.25), WithAlgorithm(InstantUnitary))
	require.NoError(t, err)

	assert.Equal(t, 1, fixed.Count(circuit.TypeID))
	assert.Equal(t, 2, instant.Count(circuit.TypeID))
}

func TestConvertIsRepeatable(t *testing.T) {
	seq, err := sequence.Predefined(sequence.XY4, 1, 2)
	require.NoError(t, err)

	opts := []Option{WithTargetQubits(0, 2), WithGateTime(0.05)}
	first := &recorder{}
	second := &recorder{}
	require.NoError(t, ConvertInto(first, seq, opts...))
	require.NoError(t, ConvertInto(second, seq, opts...))
	assert.Equal(t, first.calls, second.calls)

	a, err := Convert(seq, opts...)
	require.NoError(t, err)
	b, err := Convert(seq, opts...)
	require.NoError(t, err)
	assert.Equal(t, a.Ops(), b.Ops())
}

func TestConvertReusesRegisters(t *testing.T) {
	seq := mustSequence(t, []float64{0.5}, []float64{math.Pi}, nil, nil)

	c, err := Convert(seq,
		WithTargetQubits(2),
		WithQuantumRegister(circuit.QuantumRegister{Name: "qr", Size: 5}),
		WithClassicalRegister(circuit.ClassicalRegister{Name: "cr", Size: 3}),
	)
	require.NoError(t, err)
	assert.Equal(t, circuit.QuantumRegister{Name: "qr", Size: 5}, c.QReg)
	assert.Equal(t, circuit.ClassicalRegister{Name: "cr", Size: 3}, *c.CReg)
}

func TestConvertValidation(t *testing.T) {
	good := func(t *testing.T) *sequence.Sequence {
		return mustSequence(t, []float64{0.5}, []float64{math.Pi}, nil, nil)
	}

	tests := []struct {
		name  string
		seq   func(t *testing.T) *sequence.Sequence
		opts  []Option
		param string
	}{
		{"two pre/post parameters", good, []Option{WithPrePostGateParameters([]float64{1, 2})}, "pre_post_gate_parameters"},
		{"zero gate time", good, []Option{WithGateTime(0)}, "gate_time"},
		{"negative gate time", good, []Option{WithGateTime(-0.1)}, "gate_time"},
		{"some negative qubit", good, []Option{WithTargetQubits(0, -1, 2)}, "target_qubits[1]"},
		{"no qubits", good, []Option{WithTargetQubits()}, "target_qubits"},
		{"unknown algorithm", good, []Option{WithAlgorithm("adiabatic")}, "algorithm"},
		{"register too small", good, []Option{
			WithTargetQubits(0, 4),
			WithQuantumRegister(circuit.QuantumRegister{Size: 4}),
		}, "quantum_registers"},
		{"classical register too small", good, []Option{
			WithTargetQubits(0, 1),
			WithClassicalRegister(circuit.ClassicalRegister{Size: 1}),
		}, "classical_registers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := ConvertInto(rec, tt.seq(t), tt.opts...)

			var paramErr *InvalidParameterError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, tt.param, paramErr.Param)
			assert.Empty(t, rec.calls, "nothing is emitted on failure")
		})
	}
}

func TestConvertRegisterErrorReportsSizes(t *testing.T) {
	seq := mustSequence(t, []float64{0.5}, []float64{math.Pi}, nil, nil)
	_, err := Convert(seq, WithTargetQubits(6), WithQuantumRegister(circuit.QuantumRegister{Size: 3}))

	var paramErr *InvalidParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, 3, paramErr.Value)
	assert.Contains(t, paramErr.Reason, "target qubit 6")
}

func TestConvertSequenceErrors(t *testing.T) {
	var seqErr *InvalidSequenceError

	_, err := Convert(nil)
	assert.ErrorAs(t, err, &seqErr)

	misaligned := &sequence.Sequence{Duration: 1, Offsets: []float64{0.5}}
	_, err = Convert(misaligned)
	assert.ErrorAs(t, err, &seqErr)
}

func TestConvertLeavesNoPartialCircuit(t *testing.T) {
	rec := &recorder{}

	multiAxis := mustSequence(t, []float64{0.2, 0.6}, []float64{math.Pi, 1}, []float64{0, 0}, []float64{0, 1})
	err := ConvertInto(rec, multiAxis)
	var axisErr *MultiAxisRotationError
	require.ErrorAs(t, err, &axisErr)
	assert.Equal(t, 1, axisErr.Index)
	assert.Empty(t, rec.calls)

	crowded := mustSequence(t, []float64{0.5, 0.55}, []float64{math.Pi, math.Pi}, nil, nil)
	c, err := Convert(crowded)
	var offsetErr *UnrealizableOffsetError
	require.ErrorAs(t, err, &offsetErr)
	assert.Nil(t, c)
}

func TestConvertLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	seq := mustSequence(t, []float64{0.5}, []float64{math.Pi}, nil, nil)

	_, err := Convert(seq, WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("converted sequence").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["pulses"])
	assert.Equal(t, int64(5), fields["delays"])
}

func TestDefaultConfigIsFresh(t *testing.T) {
	a := DefaultConfig()
	a.TargetQubits[0] = 7
	a.PrePostGateParameters[0] = 0

	b := DefaultConfig()
	assert.Equal(t, []int{0}, b.TargetQubits)
	assert.Equal(t, math.Pi/2, b.PrePostGateParameters[0])
	assert.NoError(t, b.Validate())
}
