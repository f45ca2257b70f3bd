package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		in            float64
		want          float64
		wantDirection string
	}{
		{"below range", 0.3, 1.0, ClampLow},
		{"far below range", -12.5, 1.0, ClampLow},
		{"at lower bound", 1.0, 1.0, ClampNone},
		{"inside range", 3.7, 3.7, ClampNone},
		{"at upper bound", 5.0, 5.0, ClampNone},
		{"above range", 6.7, 5.0, ClampHigh},
		{"far above range", 100, 5.0, ClampHigh},
		{"fractional kept as-is", 4.25, 4.25, ClampNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, direction := Clamp(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDirection, direction)
		})
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want bool
	}{
		{"lower bound", 1.0, true},
		{"upper bound", 5.0, true},
		{"middle", 2.5, true},
		{"below", 0.99, false},
		{"above", 5.01, false},
		{"nan", math.NaN(), false},
		{"positive inf", math.Inf(1), false},
		{"negative inf", math.Inf(-1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InRange(tt.in))
		})
	}
}
