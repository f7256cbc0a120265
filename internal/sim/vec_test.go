package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecNorm(t *testing.T) {
	tests := []struct {
		name string
		in   Vec
		want Vec
	}{
		{name: "zero", in: Vec{}, want: Vec{}},
		{name: "axis", in: Vec{0, -7}, want: Vec{0, -1}},
		{name: "pythagorean", in: Vec{3, 4}, want: Vec{0.6, 0.8}},
		{name: "already unit", in: Vec{1, 0}, want: Vec{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Norm()
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}
}
