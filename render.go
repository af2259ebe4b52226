package main

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"ddcirq/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	n := ansi.StringWidth(s)
	if n >= width {
		return ansi.Truncate(s, width, "")
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// gateLabel names a gate by the rotation it performs.
func gateLabel(g *circuit.Gate) string {
	switch g.Type {
	case circuit.TypeU3:
		theta, phi, lambda := g.Params[0], g.Params[1], g.Params[2]
		switch {
		case near(theta, 0) && near(phi, 0) && near(lambda, 0):
			return "I"
		case near(phi, -math.Pi/2) && near(lambda, math.Pi/2):
			return "RX"
		case near(phi, 0) && near(lambda, 0):
			return "RY"
		}
		return "U3"
	case circuit.TypeU1:
		return "RZ"
	case circuit.TypeID:
		return "ID"
	case circuit.TypeMeasure:
		return "M"
	}
	return g.Type
}

// gateSummary describes a gate the way it appears in QASM.
func gateSummary(g *circuit.Gate) string {
	params := make([]string, len(g.Params))
	for i, p := range g.Params {
		params[i] = circuit.FormatParam(p)
	}
	switch g.Type {
	case circuit.TypeBarrier:
		return fmt.Sprintf("barrier over %d qubit(s)", len(g.Qubits))
	case circuit.TypeMeasure:
		return fmt.Sprintf("measure q[%d] -> c[%d]", g.Target(), g.Cbit)
	case circuit.TypeID:
		return fmt.Sprintf("id q[%d] (delay)", g.Target())
	}
	return fmt.Sprintf("%s(%s) q[%d]", strings.ToLower(g.Type), strings.Join(params, ", "), g.Target())
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate         *circuit.Gate
	isBarrier    bool
	vertAbove    bool
	vertBelow    bool
	measureBelow bool
}

// cellInfoAt returns rendering information for the cell at (step, qubit).
func cellInfoAt(c *circuit.Circuit, step, qubit int) cellInfo {
	var info cellInfo

	if g := c.GateAt(step, qubit); g != nil {
		info.gate = g
		if g.Type == circuit.TypeBarrier {
			info.isBarrier = true
			info.vertAbove = qubit > slices.Min(g.Qubits)
			info.vertBelow = qubit < slices.Max(g.Qubits)
		}
	}

	for _, g := range c.Gates {
		if g.Step == step && g.Type == circuit.TypeMeasure && qubit > g.Target() {
			info.measureBelow = true
			break
		}
	}
	return info
}

// measuredBits returns the classical bits written at the given step.
func measuredBits(c *circuit.Circuit, step int) []int {
	var bits []int
	for _, g := range c.Gates {
		if g.Step == step && g.Type == circuit.TypeMeasure {
			bits = append(bits, g.Cbit)
		}
	}
	return bits
}

// ──────────────────────────── Cell rendering ────────────────────────────

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, cursor bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + barrierStyle.Render("┆") + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)

	if cursor {
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = cursorBoxStyle.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = cursorBoxStyle.Render("╚" + strings.Repeat("═", innerW) + "╝")
		edge := cursorBoxStyle.Render("║")
		switch {
		case info.isBarrier:
			mid = edge + strings.Repeat("─", dashL) + barrierStyle.Render("┆") + strings.Repeat("─", dashR) + edge
		case info.gate != nil:
			mid = edge + "─┤" + gateStyleFor(info.gate).Render(padCenter(gateLabel(info.gate), gateNameW)) + "├─" + edge
		default:
			mid = edge + strings.Repeat("─", innerW) + edge
		}
		return
	}

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1
	margin := (cellW - gateBoxW) / 2
	rightMargin := cellW - margin - gateBoxW

	switch {
	case info.isBarrier:
		top, bot = emptyRow, emptyRow
		if info.vertAbove {
			top = vertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		mid = strings.Repeat("─", dashL) + barrierStyle.Render("┆") + strings.Repeat("─", dashR)

	case info.gate != nil:
		style := gateStyleFor(info.gate)
		name := padCenter(gateLabel(info.gate), gateNameW)
		top = strings.Repeat(" ", margin) + style.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
		if info.gate.Type == circuit.TypeMeasure || info.measureBelow {
			bot = dblVertRow
		}

	case info.measureBelow:
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow

	default:
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// visibleSteps returns the first step and number of steps that fit in width.
func (m Model) visibleSteps(width int) (start, count int) {
	count = max((width-labelVisualW-4)/cellW, 1)
	if m.cursorStep >= count {
		start = m.cursorStep - count + 1
	}
	return start, count
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	title := "Circuit"
	if m.circuit.Name != "" {
		title += ": " + m.circuit.Name
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	startStep, displaySteps := m.visibleSteps(width)
	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d of %d\n", startStep, startStep+displaySteps-1, m.circuit.MaxSteps)
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+displaySteps; step++ {
		header += dimStyle.Render(padCenter(strconv.Itoa(step), cellW))
	}
	sb.WriteString(header + "\n")

	qname := m.circuit.QReg.Name
	for qubit := range m.circuit.NumQubits() {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("%s[%d]", qname, qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+displaySteps; step++ {
			cursor := step == m.cursorStep && qubit == m.cursorQubit && m.focus != focusQASM
			top, mid, bot := renderCell(cellInfoAt(m.circuit, step, qubit), cursor)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Classical register as a single wire
	if numCbits := m.circuit.NumCbits(); numCbits > 0 {
		label := fmt.Sprintf("%s%d", m.circuit.CReg.Name, numCbits)
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + cbitWireStyle.Render("══")

		for step := startStep; step < startStep+displaySteps; step++ {
			bits := measuredBits(m.circuit, step)
			if len(bits) == 0 {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
				continue
			}
			bitLabel := strconv.Itoa(bits[0])
			if len(bits) > 1 {
				bitLabel += "+"
			}
			dashL := (cellW - 1) / 2
			dashR := max(cellW-dashL-1-len(bitLabel), 0)
			cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
				cbitConnectorStyle.Render("╩"+bitLabel) +
				cbitWireStyle.Render(strings.Repeat("═", dashR))
		}
		sb.WriteString(cbitLine + "\n")
	}

	fmt.Fprintf(&sb, "\n  Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
	if g := m.circuit.GateAt(m.cursorStep, m.cursorQubit); g != nil {
		fmt.Fprintf(&sb, "  │  %s", gateSummary(g))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "\n  %s", activeGateStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the read-only QASM panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM"
	if m.focus == focusQASM {
		title += " [SCROLL]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmView.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderSequencePanel lists the pulses of the current sequence.
func (m Model) renderSequencePanel() string {
	var sb strings.Builder
	seq := m.seq

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Sequence %s", seq.Name)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "duration %g, %d pulse(s)\n\n", seq.Duration, seq.Len())
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%3s %10s %10s %10s %10s", "#", "offset", "rabi", "azimuthal", "detuning")))
	sb.WriteString("\n")
	for i := range seq.Len() {
		rabi, az, det := seq.Pulse(i)
		fmt.Fprintf(&sb, "%3d %10.4g %10s %10s %10s\n", i, seq.Offsets[i],
			circuit.FormatParam(rabi), circuit.FormatParam(az), circuit.FormatParam(det))
	}
	sb.WriteString(dimStyle.Render("i/Esc close"))
	return menuBorderStyle.Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Step  g/G First/last step  Tab QASM panel\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("s Sequence  i Pulse table  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		if idx := y + i; idx >= 0 && idx < len(bgLines) {
			bgLines[idx] = spliceLineAt(bgLines[idx], ovLine, x)
		}
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces the visible columns of bgLine starting at x with overlay.
func spliceLineAt(bgLine, overlay string, x int) string {
	prefix := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(prefix); w < x {
		prefix += strings.Repeat(" ", x-w)
	}
	suffix := ansi.TruncateLeft(bgLine, x+ansi.StringWidth(overlay), "")
	return prefix + overlay + suffix
}
