package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ddcirq/circuit"
	"ddcirq/convert"
	"ddcirq/sequence"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a sequence to OPENQASM",
	Long: `Convert a predefined sequence, or one read from an HCL file, into a gate
circuit and print it as OPENQASM 2.0.

Example:
  ddcirq convert --kind spin_echo --gate-time 0.25
  ddcirq convert --file sequences.hcl --algorithm instant --no-measure`,
	RunE: runConvert,
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse a converted circuit in the terminal",
	RunE:  runView,
}

var sequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "List the predefined sequences",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, item := range sequenceMenu {
			fmt.Fprintf(out, "%-14s %s\n", item.kind, item.hint)
		}
	},
}

func init() {
	addSequenceFlags(convertCmd.Flags())
	convertCmd.Flags().String("out", "", "write QASM to this file instead of stdout")

	addSequenceFlags(viewCmd.Flags())
	viewCmd.Flags().String("qasm", "", "view an existing QASM file instead of converting")
	viewCmd.Flags().String("out", "", "file ctrl+s saves to")
}

// addSequenceFlags registers the flags shared by convert and view.
func addSequenceFlags(fs *pflag.FlagSet) {
	fs.StringP("file", "f", "", "HCL file with sequence blocks")
	fs.String("sequence", "", "sequence block to use from --file (default first)")
	fs.StringP("kind", "k", string(sequence.CPMG), "predefined sequence kind")
	fs.Float64P("duration", "d", 1, "predefined sequence duration")
	fs.IntP("pulses", "n", 4, "pulses (or xy4 cycles) in the predefined sequence")

	fs.Float64("gate-time", 0.1, "duration of one identity gate")
	fs.String("algorithm", string(convert.FixedDurationUnitary), "fixed_duration or instant")
	fs.String("pre-post", "pi/2,-pi/2,pi/2", "u3 parameters of the calibration rotations")
	fs.IntSlice("targets", []int{0}, "target qubits")
	fs.Bool("no-measure", false, "do not measure the target qubits")
	fs.String("name", "", "circuit name")
	fs.Int("qubits", 0, "quantum register size (default highest target + 1)")
}

// setup loads configuration and builds the logger for a command. With
// logPaths set, logging is off unless verbose.
func setup(cmd *cobra.Command, logPaths ...string) (*appConfig, *zap.Logger, error) {
	cfg, err := loadConfig(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	cfg.Verbose = cfg.Verbose || verbose
	if len(logPaths) > 0 && !cfg.Verbose {
		return cfg, zap.NewNop(), nil
	}
	logger, err := newLogger(cfg.Verbose, logPaths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}

// build loads the configured sequence and converts it.
func build(cfg *appConfig, logger *zap.Logger) (*circuit.Circuit, *sequence.Sequence, []convert.Option, error) {
	seq, err := cfg.loadSequence()
	if err != nil {
		return nil, nil, nil, err
	}
	opts, err := cfg.convertOptions(logger)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := convert.Convert(seq, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("convert %s: %w", seq.Name, err)
	}
	return c, seq, opts, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	c, seq, _, err := build(cfg, logger)
	if err != nil {
		return err
	}

	qasm := c.ToQASM()
	if cfg.Out == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), qasm)
		return err
	}
	if err := os.WriteFile(cfg.Out, []byte(qasm), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Out, err)
	}
	logger.Info("wrote circuit",
		zap.String("path", cfg.Out),
		zap.String("sequence", seq.Name),
		zap.Int("gates", len(c.Gates)),
		zap.Int("steps", c.MaxSteps),
	)
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	// stderr belongs to the terminal UI
	cfg, logger, err := setup(cmd, "ddcirq.log")
	if err != nil {
		return err
	}
	defer logger.Sync()

	var m Model
	if cfg.QASM != "" {
		c, err := loadQASM(cfg.QASM)
		if err != nil {
			return err
		}
		opts, err := cfg.convertOptions(logger)
		if err != nil {
			return err
		}
		m = newModel(c, nil, opts)
	} else {
		c, seq, opts, err := build(cfg, logger)
		if err != nil {
			return err
		}
		m = newModel(c, seq, opts)
	}
	m.pulses = max(cfg.Pulses, 1)
	m.savePath = cfg.Out

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func loadQASM(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := circuit.ParseQASM(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.SetName(strings.TrimSuffix(filepath.Base(path), ".qasm"))
	}
	return c, nil
}
