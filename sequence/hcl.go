package sequence

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// fileConfig is the top-level shape of a sequence definition file.
type fileConfig struct {
	Sequences []sequenceBlock `hcl:"sequence,block"`
}

// sequenceBlock is one `sequence "name" { ... }` block. A block either names
// a predefined kind or lists its pulses explicitly.
type sequenceBlock struct {
	Name              string    `hcl:"name,label"`
	Duration          float64   `hcl:"duration"`
	Kind              *string   `hcl:"kind,optional"`
	Pulses            *int      `hcl:"pulses,optional"`
	Offsets           []float64 `hcl:"offsets,optional"`
	RabiRotations     []float64 `hcl:"rabi_rotations,optional"`
	AzimuthalAngles   []float64 `hcl:"azimuthal_angles,optional"`
	DetuningRotations []float64 `hcl:"detuning_rotations,optional"`
}

// evalContext exposes `pi` to sequence expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"pi": cty.NumberFloatVal(math.Pi),
		},
	}
}

// LoadFile parses and decodes every sequence block in an HCL file.
func LoadFile(path string) ([]*Sequence, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}
	return decodeBody(file.Body, path)
}

// Decode parses and decodes every sequence block in HCL source.
func Decode(src []byte, filename string) ([]*Sequence, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}
	return decodeBody(file.Body, filename)
}

func decodeBody(body hcl.Body, filename string) ([]*Sequence, error) {
	var config fileConfig
	if diags := gohcl.DecodeBody(body, evalContext(), &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}
	if len(config.Sequences) == 0 {
		return nil, fmt.Errorf("%s: no sequence blocks found", filename)
	}

	seqs := make([]*Sequence, 0, len(config.Sequences))
	for _, block := range config.Sequences {
		seq, err := block.build()
		if err != nil {
			return nil, fmt.Errorf("%s: sequence %q: %w", filename, block.Name, err)
		}
		seqs = append(seqs, seq)
	}
	return seqs, nil
}

func (b sequenceBlock) build() (*Sequence, error) {
	if b.Kind == nil {
		return New(b.Name, b.Duration, b.Offsets, b.RabiRotations, b.AzimuthalAngles, b.DetuningRotations)
	}
	if b.Offsets != nil || b.RabiRotations != nil || b.AzimuthalAngles != nil || b.DetuningRotations != nil {
		return nil, fmt.Errorf("%w: kind and explicit pulses are mutually exclusive", ErrInvalid)
	}
	pulses := 0
	if b.Pulses != nil {
		pulses = *b.Pulses
	}
	seq, err := Predefined(Kind(*b.Kind), b.Duration, pulses)
	if err != nil {
		return nil, err
	}
	seq.Name = b.Name
	return seq, nil
}

// Find returns the sequence with the given name, or the first one when name
// is empty.
func Find(seqs []*Sequence, name string) (*Sequence, error) {
	if len(seqs) == 0 {
		return nil, fmt.Errorf("no sequences to choose from")
	}
	if name == "" {
		return seqs[0], nil
	}
	for _, s := range seqs {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sequence %q not found", name)
}
