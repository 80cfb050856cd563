package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEngagement(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"plain", 12, 30, 42},
		{"saturates", math.MaxInt64, math.MaxInt64, math.MaxInt64},
		{"saturates at boundary", math.MaxInt64 - 1, 2, math.MaxInt64},
		{"negative counts as zero", -5, 7, 7},
		{"both negative", -1, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddEngagement(tt.a, tt.b))
		})
	}
}
