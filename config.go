package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"ddcirq/circuit"
	"ddcirq/convert"
	"ddcirq/sequence"
)

// appConfig is the CLI configuration after flags, environment and config
// file have been merged.
type appConfig struct {
	// sequence source
	File     string
	Sequence string
	Kind     string
	Duration float64
	Pulses   int

	// conversion
	GateTime  float64
	Algorithm string
	PrePost   string
	Targets   []int
	Measure   bool
	Qubits    int
	Name      string

	// output
	Out     string
	QASM    string
	Verbose bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kind", string(sequence.CPMG))
	v.SetDefault("duration", 1.0)
	v.SetDefault("pulses", 4)
	v.SetDefault("gate-time", 0.1)
	v.SetDefault("algorithm", string(convert.FixedDurationUnitary))
	v.SetDefault("pre-post", "pi/2,-pi/2,pi/2")
	v.SetDefault("targets", []int{0})
	v.SetDefault("measure", true)
}

// loadConfig merges defaults, an optional ddcirq.yaml, DDCIRQ_* environment
// variables and the given flags, in increasing priority.
func loadConfig(configFile string, flags *pflag.FlagSet) (*appConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DDCIRQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("ddcirq")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ddcirq")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	return &appConfig{
		File:      v.GetString("file"),
		Sequence:  v.GetString("sequence"),
		Kind:      v.GetString("kind"),
		Duration:  v.GetFloat64("duration"),
		Pulses:    v.GetInt("pulses"),
		GateTime:  v.GetFloat64("gate-time"),
		Algorithm: v.GetString("algorithm"),
		PrePost:   v.GetString("pre-post"),
		Targets:   v.GetIntSlice("targets"),
		Measure:   v.GetBool("measure") && !v.GetBool("no-measure"),
		Qubits:    v.GetInt("qubits"),
		Name:      v.GetString("name"),
		Out:       v.GetString("out"),
		QASM:      v.GetString("qasm"),
		Verbose:   v.GetBool("verbose"),
	}, nil
}

// loadSequence reads the sequence from the HCL file when one is set, and
// builds the predefined kind otherwise.
func (c *appConfig) loadSequence() (*sequence.Sequence, error) {
	if c.File != "" {
		seqs, err := sequence.LoadFile(c.File)
		if err != nil {
			return nil, err
		}
		return sequence.Find(seqs, c.Sequence)
	}
	return sequence.Predefined(sequence.Kind(c.Kind), c.Duration, c.Pulses)
}

// convertOptions translates the configuration into conversion options.
func (c *appConfig) convertOptions(logger *zap.Logger) ([]convert.Option, error) {
	prePost, err := circuit.ParseParams(c.PrePost)
	if err != nil {
		return nil, fmt.Errorf("pre-post: %w", err)
	}

	opts := []convert.Option{
		convert.WithGateTime(c.GateTime),
		convert.WithAlgorithm(convert.Algorithm(c.Algorithm)),
		convert.WithPrePostGateParameters(prePost),
		convert.WithTargetQubits(c.Targets...),
		convert.WithMeasurement(c.Measure),
		convert.WithLogger(logger),
	}
	if c.Qubits > 0 {
		opts = append(opts, convert.WithQuantumRegister(circuit.QuantumRegister{Name: "q", Size: c.Qubits}))
	}
	if c.Name != "" {
		opts = append(opts, convert.WithCircuitName(c.Name))
	}
	return opts, nil
}

// newLogger builds a development logger when verbose, a production one
// otherwise. paths overrides where log lines go.
func newLogger(verbose bool, paths ...string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	if len(paths) > 0 {
		cfg.OutputPaths = paths
		cfg.ErrorOutputPaths = paths
	}
	return cfg.Build()
}
