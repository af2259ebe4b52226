package convert

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ddcirq/circuit"
)

// Algorithm selects how long a pulse occupies the circuit.
type Algorithm string

const (
	// FixedDurationUnitary treats every pulse as taking one gate time.
	FixedDurationUnitary Algorithm = "fixed_duration"
	// InstantUnitary treats pulses as instantaneous.
	InstantUnitary Algorithm = "instant"
)

// UnitaryTime returns the time one pulse consumes under the algorithm.
func (a Algorithm) UnitaryTime(gateTime float64) float64 {
	if a == FixedDurationUnitary {
		return gateTime
	}
	return 0
}

// Config holds the resolved call-site options of one conversion.
type Config struct {
	PrePostGateParameters []float64 `param:"pre_post_gate_parameters" validate:"len=3"`
	GateTime              float64   `param:"gate_time" validate:"gt=0"`
	TargetQubits          []int     `param:"target_qubits" validate:"min=1,dive,min=0"`
	Algorithm             Algorithm `param:"algorithm" validate:"oneof=fixed_duration instant"`
	AddMeasurement        bool      `param:"add_measurement"`
	CircuitName           string    `param:"circuit_name"`

	// QuantumRegister is reused instead of allocating a fresh register.
	QuantumRegister *circuit.QuantumRegister `param:"quantum_registers" validate:"-"`
	// ClassicalRegister is reused for measurements instead of allocating one.
	ClassicalRegister *circuit.ClassicalRegister `param:"classical_registers" validate:"-"`

	Logger *zap.Logger `validate:"-"`
}

// DefaultConfig returns the defaults: target qubit 0, gate time 0.1, a pi/2
// X rotation before and after the sequence, measurement enabled and fixed
// duration pulses. Every call returns fresh slices.
func DefaultConfig() Config {
	return Config{
		PrePostGateParameters: []float64{math.Pi / 2, -math.Pi / 2, math.Pi / 2},
		GateTime:              0.1,
		TargetQubits:          []int{0},
		Algorithm:             FixedDurationUnitary,
		AddMeasurement:        true,
		Logger:                zap.NewNop(),
	}
}

// Option adjusts a Config.
type Option func(*Config)

// NewConfig resolves options over DefaultConfig.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// WithConfig replaces every setting with cfg.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
		c.TargetQubits = slices.Clone(cfg.TargetQubits)
		c.PrePostGateParameters = slices.Clone(cfg.PrePostGateParameters)
	}
}

// WithTargetQubits sets the qubits the sequence is applied to.
func WithTargetQubits(qubits ...int) Option {
	return func(c *Config) { c.TargetQubits = slices.Clone(qubits) }
}

// WithGateTime sets the duration of one delay gate.
func WithGateTime(t float64) Option {
	return func(c *Config) { c.GateTime = t }
}

// WithPrePostGateParameters sets the u3 parameters of the calibration gates
// emitted before and after the sequence.
func WithPrePostGateParameters(params []float64) Option {
	return func(c *Config) { c.PrePostGateParameters = slices.Clone(params) }
}

// WithMeasurement toggles the measurement stage.
func WithMeasurement(enabled bool) Option {
	return func(c *Config) { c.AddMeasurement = enabled }
}

// WithAlgorithm sets the pulse timing model.
func WithAlgorithm(a Algorithm) Option {
	return func(c *Config) { c.Algorithm = a }
}

// WithQuantumRegister reuses an existing quantum register.
func WithQuantumRegister(reg circuit.QuantumRegister) Option {
	return func(c *Config) { c.QuantumRegister = &reg }
}

// WithClassicalRegister reuses an existing classical register for measurements.
func WithClassicalRegister(reg circuit.ClassicalRegister) Option {
	return func(c *Config) { c.ClassicalRegister = &reg }
}

// WithCircuitName labels the produced circuit.
func WithCircuitName(name string) Option {
	return func(c *Config) { c.CircuitName = name }
}

// WithLogger sets the logger conversions report to.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("param"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Validate checks every option and returns *InvalidParameterError for the
// first one out of its domain.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return parameterError(errs[0])
		}
		return err
	}

	maxQubit := slices.Max(c.TargetQubits)
	if c.QuantumRegister != nil && maxQubit+1 > c.QuantumRegister.Size {
		return &InvalidParameterError{
			Param: "quantum_registers",
			Value: c.QuantumRegister.Size,
			Reason: fmt.Sprintf("target qubit %d is not present; register needs at least %d qubits",
				maxQubit, maxQubit+1),
		}
	}
	if c.AddMeasurement && c.ClassicalRegister != nil && c.ClassicalRegister.Size < len(c.TargetQubits) {
		return &InvalidParameterError{
			Param: "classical_registers",
			Value: c.ClassicalRegister.Size,
			Reason: fmt.Sprintf("%d target qubits need at least %d classical bits",
				len(c.TargetQubits), len(c.TargetQubits)),
		}
	}
	return nil
}

// parameterError converts a validator failure into an InvalidParameterError.
func parameterError(e validator.FieldError) *InvalidParameterError {
	var reason string
	switch e.Tag() {
	case "len":
		reason = fmt.Sprintf("must have exactly %s entries", e.Param())
	case "gt":
		reason = fmt.Sprintf("must be greater than %s", e.Param())
	case "min":
		if e.Kind() == reflect.Slice {
			reason = fmt.Sprintf("must have at least %s entries", e.Param())
		} else {
			reason = fmt.Sprintf("must be at least %s", e.Param())
		}
	case "oneof":
		reason = fmt.Sprintf("must be one of: %s", e.Param())
	default:
		reason = fmt.Sprintf("failed validation: %s", e.Tag())
	}
	return &InvalidParameterError{Param: e.Field(), Value: e.Value(), Reason: reason}
}
