package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0.0 B"},
		{500, "500.0 B"},
		{1024, "1.0 KB"},
		{2048, "2.0 KB"},
		{1024 * 1024, "1.0 MB"},
		{500 * 1024 * 1024, "500.0 MB"},
		{1024 * 1024 * 1024, "1.0 GB"},
		{int64(4.5 * 1024 * 1024 * 1024), "4.5 GB"},
		{1024 * 1024 * 1024 * 1024, "1.0 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%d)", tt.in)
	}
}

func TestFormatSize_UnitNeverShrinks(t *testing.T) {
	units := map[string]int{"B": 0, "KB": 1, "MB": 2, "GB": 3, "TB": 4, "PB": 5}
	unitOf := func(s string) int {
		for i := len(s) - 1; i >= 0; i-- {
			if s[i] == ' ' {
				return units[s[i+1:]]
			}
		}
		return -1
	}

	prev := 0
	for b := int64(1); b < 1<<50; b *= 3 {
		u := unitOf(FormatSize(b))
		assert.GreaterOrEqual(t, u, prev, "unit regressed at %d", b)
		prev = u
	}
}

func TestThresholdConversions(t *testing.T) {
	assert.Equal(t, int64(10_000_000), MB(10))
	assert.Equal(t, int64(1_000_000_000), GB(1))
	assert.Equal(t, int64(500_000_000), GB(0.5))
}
