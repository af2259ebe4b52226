package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	nameRegex    = regexp.MustCompile(`^//\s*circuit:\s*(.+)$`)
	qregRegex    = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\];?$`)
	cregRegex    = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\];?$`)
	u3Regex      = regexp.MustCompile(`^u3\s*\(\s*(` + paramPattern + `)\s*,\s*(` + paramPattern + `)\s*,\s*(` + paramPattern + `)\s*\)\s+\w+\[(\d+)\];?$`)
	u1Regex      = regexp.MustCompile(`^u1\s*\(\s*(` + paramPattern + `)\s*\)\s+\w+\[(\d+)\];?$`)
	idRegex      = regexp.MustCompile(`^id\s+\w+\[(\d+)\];?$`)
	measureRegex = regexp.MustCompile(`^measure\s+\w+\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	barrierRegex = regexp.MustCompile(`^barrier\s+(.+?);?$`)
	operandRegex = regexp.MustCompile(`^\w+\[(\d+)\]$`)
)

// ToQASM generates QASM 2.0 output from the circuit, in append order.
func (c *Circuit) ToQASM() string {
	qname := c.QReg.Name
	if qname == "" {
		qname = "q"
	}
	cname := "c"
	if c.CReg != nil {
		cname = c.CReg.Name
	}

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")
	if c.Name != "" {
		fmt.Fprintf(&sb, "// circuit: %s\n", c.Name)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "qreg %s[%d];\n", qname, max(c.NumQubits(), 1))
	if c.CReg != nil {
		fmt.Fprintf(&sb, "creg %s[%d];\n", cname, c.CReg.Size)
	}
	sb.WriteString("\n")

	for _, g := range c.Gates {
		switch g.Type {
		case TypeBarrier:
			operands := make([]string, len(g.Qubits))
			for i, q := range g.Qubits {
				operands[i] = fmt.Sprintf("%s[%d]", qname, q)
			}
			fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(operands, ", "))
		case TypeMeasure:
			fmt.Fprintf(&sb, "measure %s[%d] -> %s[%d];\n", qname, g.Target(), cname, g.Cbit)
		case TypeU3:
			fmt.Fprintf(&sb, "u3(%s, %s, %s) %s[%d];\n",
				FormatParam(g.Params[0]), FormatParam(g.Params[1]), FormatParam(g.Params[2]), qname, g.Target())
		case TypeU1:
			fmt.Fprintf(&sb, "u1(%s) %s[%d];\n", FormatParam(g.Params[0]), qname, g.Target())
		default:
			fmt.Fprintf(&sb, "%s %s[%d];\n", strings.ToLower(g.Type), qname, g.Target())
		}
	}

	return sb.String()
}

// ParseQASM parses the QASM subset written by ToQASM into a new circuit.
func ParseQASM(qasm string) (*Circuit, error) {
	c := New()

	for i, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		lineNo := i + 1

		if m := nameRegex.FindStringSubmatch(line); m != nil {
			c.SetName(strings.TrimSpace(m[1]))
			continue
		}
		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			c.AddQuantumRegister(QuantumRegister{Name: m[1], Size: n})
			continue
		}
		if m := cregRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			c.AddClassicalRegister(ClassicalRegister{Name: m[1], Size: n})
			continue
		}

		if m := u3Regex.FindStringSubmatch(line); m != nil {
			params := make([]float64, 3)
			for k := range params {
				v, ok := ParseParamExpr(m[k+1])
				if !ok {
					return nil, fmt.Errorf("line %d: invalid parameter %q", lineNo, m[k+1])
				}
				params[k] = v
			}
			q, _ := strconv.Atoi(m[4])
			c.U3(q, params[0], params[1], params[2])
			continue
		}
		if m := u1Regex.FindStringSubmatch(line); m != nil {
			lambda, ok := ParseParamExpr(m[1])
			if !ok {
				return nil, fmt.Errorf("line %d: invalid parameter %q", lineNo, m[1])
			}
			q, _ := strconv.Atoi(m[2])
			c.U1(q, lambda)
			continue
		}
		if m := idRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			c.ID(q)
			continue
		}
		if m := measureRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			cbit, _ := strconv.Atoi(m[2])
			c.Measure(q, cbit)
			continue
		}
		if m := barrierRegex.FindStringSubmatch(line); m != nil {
			var qubits []int
			for _, operand := range strings.Split(m[1], ",") {
				om := operandRegex.FindStringSubmatch(strings.TrimSpace(operand))
				if om == nil {
					return nil, fmt.Errorf("line %d: invalid barrier operand %q", lineNo, operand)
				}
				q, _ := strconv.Atoi(om[1])
				qubits = append(qubits, q)
			}
			c.Barrier(qubits...)
			continue
		}

		return nil, fmt.Errorf("line %d: unsupported statement %q", lineNo, line)
	}

	return c, nil
}
