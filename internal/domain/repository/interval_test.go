package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalMapper_PassThrough(t *testing.T) {
	m := NewIntervalMapper(nil, "1h")

	assert.Equal(t, "4h", m.Normalize("4h"))
	assert.Equal(t, "1M", m.Normalize("1M"))
	assert.Equal(t, "1h", m.Normalize(""))
	assert.Equal(t, "1h", m.Normalize("7x"))
	assert.Equal(t, "1h", m.Default())
}

func TestIntervalMapper_Table(t *testing.T) {
	m := NewIntervalMapper(map[Interval]string{
		Interval1m: "1",
		Interval1h: "60",
		Interval1d: "D",
	}, "60")

	tests := []struct {
		in   string
		want string
	}{
		{"1m", "1"},
		{"1h", "60"},
		{" 1d ", "D"},
		{"D", "D"},
		{"60", "60"},
		{"3d", "60"},
		{"", "60"},
		{"garbage", "60"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Normalize(tt.in), "input %q", tt.in)
	}
}

func TestIsValidInterval(t *testing.T) {
	assert.True(t, IsValidInterval("15m"))
	assert.False(t, IsValidInterval("15M"))
	assert.False(t, IsValidInterval(""))
}
