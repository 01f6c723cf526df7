package mathx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapF64(t *testing.T) {
	cases := []struct {
		name                           string
		x, inMin, inMax, outMin, outMax float64
		want                           float64
	}{
		{"lower bound", 0, 0, 1000, 0, 10, 0},
		{"upper bound", 1000, 0, 1000, 0, 10, 10},
		{"mid", 100, 0, 1000, 0, 10, 1},
		{"extrapolates below", -500, 0, 1000, 0, 10, -5},
		{"extrapolates above", 2000, 0, 1000, 0, 10, 20},
		{"inverted output", 250, 0, 1000, 10, 0, 7.5},
		{"offset domain", 4000, 4000, 20000, 0, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapF64(tc.x, tc.inMin, tc.inMax, tc.outMin, tc.outMax)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestMapF64ZeroWidthDomain(t *testing.T) {
	got := MapF64(5, 3, 3, 0, 1)
	assert.True(t, math.IsInf(got, 0) || math.IsNaN(got))
}

func TestClampAndBetween(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, 0, Clamp(-1, 5, 0))
	assert.Equal(t, 3, Clamp(3, 0, 5))
	assert.True(t, Between(0x48, 0x4B, 0x48))
	assert.False(t, Between(0x47, 0x48, 0x4B))
}
