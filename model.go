package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ddcirq/circuit"
	"ddcirq/convert"
	"ddcirq/sequence"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSequence
)

// Model represents the TUI viewer state.
type Model struct {
	circuit     *circuit.Circuit
	seq         *sequence.Sequence // nil when viewing a QASM file
	opts        []convert.Option
	duration    float64
	pulses      int
	savePath    string
	cursorQubit int
	cursorStep  int
	width       int
	height      int
	qasmView    textarea.Model
	focus       focus
	statusMsg   string // transient status message (e.g. save confirmation)
	menuItem    int
}

// newModel builds a viewer for c. seq and opts are used to regenerate the
// circuit from the sequence picker.
func newModel(c *circuit.Circuit, seq *sequence.Sequence, opts []convert.Option) Model {
	ta := textarea.New()
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0

	m := Model{
		qasmView: ta,
		focus:    focusCircuit,
		opts:     opts,
		duration: 1,
		pulses:   4,
	}
	m.setCircuit(c, seq)
	return m
}

// setCircuit replaces the viewed circuit and refreshes the QASM panel.
func (m *Model) setCircuit(c *circuit.Circuit, seq *sequence.Sequence) {
	m.circuit = c
	m.seq = seq
	if seq != nil {
		m.duration = seq.Duration
	}
	m.cursorStep = min(m.cursorStep, max(c.MaxSteps-1, 0))
	m.cursorQubit = min(m.cursorQubit, max(c.NumQubits()-1, 0))
	m.qasmView.SetValue(c.ToQASM())
	m.qasmView.CursorStart()
}

// regenerate rebuilds the circuit from a predefined sequence.
func (m *Model) regenerate(kind sequence.Kind) error {
	seq, err := sequence.Predefined(kind, m.duration, m.pulses)
	if err != nil {
		return err
	}
	c, err := convert.Convert(seq, m.opts...)
	if err != nil {
		return err
	}
	m.setCircuit(c, seq)
	return nil
}

// outputPath is where ctrl+s writes the QASM.
func (m Model) outputPath() string {
	if m.savePath != "" {
		return m.savePath
	}
	if m.circuit.Name != "" {
		return m.circuit.Name + ".qasm"
	}
	if m.seq != nil && m.seq.Name != "" {
		return m.seq.Name + ".qasm"
	}
	return "circuit.qasm"
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmView.SetWidth(max(msg.Width/3-6, 20))
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		m.qasmView.SetHeight(max(circH-4, 4))

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmView.Focus()
			case "ctrl+s":
				path := m.outputPath()
				if err := os.WriteFile(path, []byte(m.circuit.ToQASM()), 0o644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved " + path
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits()-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				if m.cursorStep < m.circuit.MaxSteps-1 {
					m.cursorStep++
				}
			case "g", "home":
				m.cursorStep = 0
			case "G", "end":
				m.cursorStep = max(m.circuit.MaxSteps-1, 0)
			case "s":
				m.focus = focusMenu
			case "i":
				if m.seq != nil {
					m.focus = focusSequence
				} else {
					m.statusMsg = "No sequence loaded"
				}
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(sequenceMenu)-1 {
					m.menuItem++
				}
			case "+", "=":
				m.pulses++
			case "-":
				if m.pulses > 1 {
					m.pulses--
				}
			case "enter":
				item := sequenceMenu[m.menuItem]
				if err := m.regenerate(item.kind); err != nil {
					m.statusMsg = err.Error()
					break
				}
				m.statusMsg = fmt.Sprintf("Converted %s: %d gates", item.name, len(m.circuit.Gates))
				m.focus = focusCircuit
			}

		case focusSequence:
			if key == "esc" || key == "i" || key == "q" {
				m.focus = focusCircuit
			}

		case focusQASM:
			switch key {
			case "tab", "esc":
				m.focus = focusCircuit
				m.qasmView.Blur()
			case "up", "down", "pgup", "pgdown", "left", "right", "home", "end":
				// read-only: only movement keys reach the textarea
				var cmd tea.Cmd
				m.qasmView, cmd = m.qasmView.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusSequence:
		frame = overlayAt(frame, m.renderSequencePanel(), 2, 2)
	}

	return frame
}
