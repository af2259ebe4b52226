package main

import (
	"fmt"
	"strings"

	"ddcirq/sequence"
)

// menuItem represents a single sequence choice in the menu.
type menuItem struct {
	name   string
	kind   sequence.Kind
	symbol string
	hint   string
}

// sequenceMenu lists the predefined sequences the viewer can regenerate.
var sequenceMenu = []menuItem{
	{name: "Ramsey", kind: sequence.Ramsey, symbol: "·", hint: "free evolution"},
	{name: "Spin echo", kind: sequence.SpinEcho, symbol: "X", hint: "one pulse at T/2"},
	{name: "Carr-Purcell", kind: sequence.CarrPurcell, symbol: "XX", hint: "n X pulses"},
	{name: "CPMG", kind: sequence.CPMG, symbol: "YY", hint: "n Y pulses"},
	{name: "Uhrig", kind: sequence.Uhrig, symbol: "Y Y", hint: "sin² spacing"},
	{name: "Periodic", kind: sequence.Periodic, symbol: "X X", hint: "even spacing"},
	{name: "XY4", kind: sequence.XY4, symbol: "XYXY", hint: "n cycles"},
}

// renderMenu renders the floating sequence-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Sequence"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("duration %g  pulses %d", m.duration, m.pulses)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 36)))
	sb.WriteString("\n")

	for i, item := range sequenceMenu {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-14s", item.name)))
			sb.WriteString(gateStyle.Render(fmt.Sprintf("%-5s", item.symbol)))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-14s", item.name)))
			sb.WriteString(dimStyle.Render(fmt.Sprintf("%-5s", item.symbol)))
		}
		sb.WriteString(dimStyle.Render(" " + item.hint))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  +/- Pulses  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
