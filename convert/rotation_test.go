package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotation(t *testing.T) {
	r := NewRotation(2, 0, 0)
	assert.Equal(t, 2.0, r.X)
	assert.Equal(t, 0.0, r.Y)

	r = NewRotation(2, math.Pi/2, 0)
	assert.InDelta(t, 0, r.X, 1e-12)
	assert.InDelta(t, 2, r.Y, 1e-12)

	r = NewRotation(0, 0, 0.7)
	assert.Equal(t, Rotation{X: 0, Y: 0, Z: 0.7}, r)
	assert.Equal(t, 1, r.ActiveAxes())
	assert.False(t, r.IsZero())
	assert.True(t, NewRotation(1e-10, math.Pi, -1e-10).IsZero())
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name      string
		rabi      float64
		azimuthal float64
		detuning  float64
		want      Selection
	}{
		{"x", math.Pi, 0, 0, Selection{Axis: AxisX, Angle: math.Pi}},
		{"negative x", math.Pi, math.Pi, 0, Selection{Axis: AxisX, Angle: -math.Pi}},
		{"y", math.Pi, math.Pi / 2, 0, Selection{Axis: AxisY, Angle: math.Pi}},
		{"z", 0, 0, math.Pi / 2, Selection{Axis: AxisZ, Angle: math.Pi / 2}},
		{"none", 0, math.Pi / 2, 0, Selection{Axis: AxisNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompose(tt.rabi, tt.azimuthal, tt.detuning)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Axis, got.Axis)
			assert.InDelta(t, tt.want.Angle, got.Angle, 1e-12)
		})
	}
}

func TestDecomposeRejectsMultiAxis(t *testing.T) {
	_, err := Decompose(1.0, 0, 1.0)
	require.Error(t, err)

	var axisErr *MultiAxisRotationError
	require.ErrorAs(t, err, &axisErr)
	assert.Equal(t, -1, axisErr.Index)
	assert.Equal(t, Rotation{X: 1, Y: 0, Z: 1}, axisErr.Rotation)
	assert.NotContains(t, err.Error(), "at offset")

	// x and y both active
	_, err = Decompose(1.0, math.Pi/4, 0)
	assert.ErrorAs(t, err, &axisErr)
}

func TestSelectionU3Params(t *testing.T) {
	theta, phi, lambda := Selection{Axis: AxisX, Angle: 1.5}.U3Params()
	assert.Equal(t, []float64{1.5, -math.Pi / 2, math.Pi / 2}, []float64{theta, phi, lambda})

	theta, phi, lambda = Selection{Axis: AxisY, Angle: 1.5}.U3Params()
	assert.Equal(t, []float64{1.5, 0, 0}, []float64{theta, phi, lambda})

	theta, phi, lambda = Selection{Axis: AxisNone}.U3Params()
	assert.Equal(t, []float64{0, 0, 0}, []float64{theta, phi, lambda})

	assert.Equal(t, "Z", AxisZ.String())
}
