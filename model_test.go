package main

import (
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddcirq/circuit"
	"ddcirq/convert"
	"ddcirq/sequence"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func echoModel(t *testing.T) Model {
	t.Helper()
	seq, err := sequence.Predefined(sequence.SpinEcho, 1, 0)
	require.NoError(t, err)
	c, err := convert.Convert(seq, convert.WithGateTime(0.25))
	require.NoError(t, err)
	return newModel(c, seq, []convert.Option{convert.WithGateTime(0.25)})
}

func TestGateLabel(t *testing.T) {
	tests := []struct {
		gate circuit.Gate
		want string
	}{
		{circuit.Gate{Type: circuit.TypeU3, Params: []float64{math.Pi, -math.Pi / 2, math.Pi / 2}}, "RX"},
		{circuit.Gate{Type: circuit.TypeU3, Params: []float64{math.Pi, 0, 0}}, "RY"},
		{circuit.Gate{Type: circuit.TypeU3, Params: []float64{0, 0, 0}}, "I"},
		{circuit.Gate{Type: circuit.TypeU3, Params: []float64{1, 2, 3}}, "U3"},
		{circuit.Gate{Type: circuit.TypeU1, Params: []float64{math.Pi}}, "RZ"},
		{circuit.Gate{Type: circuit.TypeID}, "ID"},
		{circuit.Gate{Type: circuit.TypeMeasure}, "M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gateLabel(&tt.gate))
	}
}

func TestCellInfoAt(t *testing.T) {
	c := circuit.New()
	c.AddQuantumRegister(circuit.QuantumRegister{Size: 3})
	c.AddClassicalRegister(circuit.ClassicalRegister{Size: 1})
	c.Barrier()
	c.Measure(0, 0)

	top := cellInfoAt(c, 0, 0)
	assert.True(t, top.isBarrier)
	assert.False(t, top.vertAbove)
	assert.True(t, top.vertBelow)

	middle := cellInfoAt(c, 0, 1)
	assert.True(t, middle.vertAbove)
	assert.True(t, middle.vertBelow)

	measured := cellInfoAt(c, 1, 0)
	require.NotNil(t, measured.gate)
	assert.Equal(t, circuit.TypeMeasure, measured.gate.Type)
	assert.False(t, measured.measureBelow)
	assert.True(t, cellInfoAt(c, 1, 2).measureBelow)
	assert.Equal(t, []int{0}, measuredBits(c, 1))
}

func TestRenderCellWidth(t *testing.T) {
	g := circuit.Gate{Type: circuit.TypeU3, Params: []float64{math.Pi, 0, 0}}
	for _, info := range []cellInfo{{}, {gate: &g}, {isBarrier: true}, {measureBelow: true}} {
		for _, cursor := range []bool{false, true} {
			top, mid, bot := renderCell(info, cursor)
			for _, line := range []string{top, mid, bot} {
				assert.Equal(t, cellW, ansi.StringWidth(line))
			}
		}
	}
}

func TestSpliceLineAt(t *testing.T) {
	assert.Equal(t, "abXYefgh", spliceLineAt("abcdefgh", "XY", 2))
	assert.Equal(t, "ab  XY", spliceLineAt("ab", "XY", 4))
}

func TestModelCursorStaysOnCircuit(t *testing.T) {
	m := echoModel(t)

	m = press(t, m, "G", "l", "l")
	assert.Equal(t, m.circuit.MaxSteps-1, m.cursorStep)

	m = press(t, m, "j")
	assert.Equal(t, 0, m.cursorQubit, "single-qubit register")

	m = press(t, m, "g")
	assert.Equal(t, 0, m.cursorStep)
}

func TestModelRegeneratesFromMenu(t *testing.T) {
	m := echoModel(t)
	m.pulses = 2

	m = press(t, m, "s")
	assert.Equal(t, focusMenu, m.focus)

	// Ramsey, Spin echo, Carr-Purcell, CPMG
	m = press(t, m, "down", "down", "down", "enter")
	assert.Equal(t, focusCircuit, m.focus)
	require.NotNil(t, m.seq)
	assert.Equal(t, "cpmg", m.seq.Name)
	assert.Equal(t, 2, m.seq.Len())
	assert.Contains(t, m.qasmView.Value(), "u3(pi, 0, 0) q[0];")
	assert.Contains(t, m.statusMsg, "Converted CPMG")
}

func TestModelView(t *testing.T) {
	m := echoModel(t)
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m = next.(Model)
	view := m.View()
	assert.Contains(t, view, "Circuit")
	assert.Contains(t, view, "QASM")

	m = press(t, m, "i")
	assert.Equal(t, focusSequence, m.focus)
	assert.Contains(t, m.View(), "Sequence spin_echo")
	m = press(t, m, "esc")
	assert.Equal(t, focusCircuit, m.focus)
}

func TestOutputPath(t *testing.T) {
	m := echoModel(t)
	assert.Equal(t, "spin_echo.qasm", m.outputPath())

	m.circuit.SetName("echo")
	assert.Equal(t, "echo.qasm", m.outputPath())

	m.savePath = "out.qasm"
	assert.Equal(t, "out.qasm", m.outputPath())
}
