// Package circuit holds the gate-level circuit model that converted
// sequences are written into, plus its OPENQASM 2.0 reader and writer.
package circuit

import "slices"

// Gate types emitted by the circuit model.
const (
	TypeU3      = "U3"
	TypeU1      = "U1"
	TypeID      = "ID"
	TypeBarrier = "BARRIER"
	TypeMeasure = "MEASURE"
)

// QuantumRegister is a named block of qubits.
type QuantumRegister struct {
	Name string
	Size int
}

// ClassicalRegister is a named block of classical bits.
type ClassicalRegister struct {
	Name string
	Size int
}

// Gate represents an operation placed on the circuit.
type Gate struct {
	Type   string
	Qubits []int     // target qubit, or every qubit a barrier spans
	Cbit   int       // -1 if not a measurement
	Params []float64 // Parameters for U3 / U1
	Step   int       // column in the rendered timeline
}

// Target returns the first qubit the gate acts on.
func (g Gate) Target() int {
	if len(g.Qubits) == 0 {
		return -1
	}
	return g.Qubits[0]
}

// references reports whether the gate touches the given qubit.
func (g Gate) references(qubit int) bool {
	return slices.Contains(g.Qubits, qubit)
}

// Circuit holds the circuit state. Gates are kept in append order.
type Circuit struct {
	Name     string
	QReg     QuantumRegister
	CReg     *ClassicalRegister // nil when the circuit has no classical bits
	Gates    []Gate
	MaxSteps int

	frontier []int // next free step per qubit
}

// New returns an empty circuit.
func New() *Circuit {
	return &Circuit{}
}

// AddQuantumRegister sets the circuit's quantum register.
func (c *Circuit) AddQuantumRegister(reg QuantumRegister) {
	if reg.Name == "" {
		reg.Name = "q"
	}
	c.QReg = reg
	c.grow(reg.Size)
}

// AddClassicalRegister sets the circuit's classical register.
func (c *Circuit) AddClassicalRegister(reg ClassicalRegister) {
	if reg.Name == "" {
		reg.Name = "c"
	}
	c.CReg = &reg
}

// SetName labels the circuit.
func (c *Circuit) SetName(name string) {
	c.Name = name
}

// U3 appends a generic single-qubit rotation u3(theta, phi, lambda).
func (c *Circuit) U3(qubit int, theta, phi, lambda float64) {
	c.append(TypeU3, []int{qubit}, -1, []float64{theta, phi, lambda})
}

// U1 appends a phase rotation u1(lambda).
func (c *Circuit) U1(qubit int, lambda float64) {
	c.append(TypeU1, []int{qubit}, -1, []float64{lambda})
}

// ID appends an identity (delay) gate.
func (c *Circuit) ID(qubit int) {
	c.append(TypeID, []int{qubit}, -1, nil)
}

// Barrier appends a barrier over the given qubits, or over the whole
// register when none are given.
func (c *Circuit) Barrier(qubits ...int) {
	if len(qubits) == 0 {
		qubits = make([]int, c.NumQubits())
		for q := range qubits {
			qubits[q] = q
		}
	}
	c.append(TypeBarrier, slices.Clone(qubits), -1, nil)
}

// Measure appends a measurement of qubit into classical bit cbit.
func (c *Circuit) Measure(qubit, cbit int) {
	c.append(TypeMeasure, []int{qubit}, cbit, nil)
}

// append places the gate on the first step after the last gate on any of
// its qubits.
func (c *Circuit) append(gateType string, qubits []int, cbit int, params []float64) {
	step := 0
	for _, q := range qubits {
		c.grow(q + 1)
		step = max(step, c.frontier[q])
	}
	for _, q := range qubits {
		c.frontier[q] = step + 1
	}
	c.Gates = append(c.Gates, Gate{
		Type:   gateType,
		Qubits: qubits,
		Cbit:   cbit,
		Params: params,
		Step:   step,
	})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

func (c *Circuit) grow(n int) {
	for len(c.frontier) < n {
		c.frontier = append(c.frontier, 0)
	}
}

// NumQubits returns the register size, or the highest referenced qubit + 1
// when no register was allocated.
func (c *Circuit) NumQubits() int {
	return max(c.QReg.Size, len(c.frontier))
}

// NumCbits returns the number of classical bits, 0 without a classical register.
func (c *Circuit) NumCbits() int {
	if c.CReg == nil {
		return 0
	}
	return c.CReg.Size
}

// Ops returns a copy of the gates in append order.
func (c *Circuit) Ops() []Gate {
	return slices.Clone(c.Gates)
}

// QubitOps returns the gates touching the given qubit, in append order.
func (c *Circuit) QubitOps(qubit int) []Gate {
	var ops []Gate
	for _, g := range c.Gates {
		if g.references(qubit) {
			ops = append(ops, g)
		}
	}
	return ops
}

// GateAt returns the gate at the given step and qubit, or nil.
func (c *Circuit) GateAt(step, qubit int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step == step && g.references(qubit) {
			return g
		}
	}
	return nil
}

// MeasureAtStep returns the classical bit written at the given step, or -1.
func (c *Circuit) MeasureAtStep(step int) int {
	for _, g := range c.Gates {
		if g.Step == step && g.Type == TypeMeasure {
			return g.Cbit
		}
	}
	return -1
}

// Count returns how many gates of the given type the circuit holds.
func (c *Circuit) Count(gateType string) int {
	n := 0
	for _, g := range c.Gates {
		if g.Type == gateType {
			n++
		}
	}
	return n
}
