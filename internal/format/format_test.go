package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		v        float64
		decimals int
		want     string
	}{
		{12345, 0, "12 345"},
		{12345.678, 1, "12 345.7"},
		{1234567.891, 2, "1 234 567.89"},
		{-9876.4, 0, "-9 876"},
		{0.4, 0, "0"},
		{-0.2, 0, "0"},
		{999, 0, "999"},
		{math.NaN(), 0, Missing},
		{math.Inf(1), 2, Missing},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Number(c.v, c.decimals), "%v/%d", c.v, c.decimals)
	}
}

func TestWithUnit(t *testing.T) {
	assert.Equal(t, "1 500 kWh", WithUnit(1500, "kWh", 0))
	assert.Equal(t, "1 500", WithUnit(1500, " ", 0))
	assert.Equal(t, Missing, WithUnit(math.NaN(), "kWh", 0))
}

func TestOptional(t *testing.T) {
	v := 0.4567
	assert.Equal(t, "0.46", Optional(&v, 2))
	assert.Equal(t, Missing, Optional(nil, 2))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.3 %", Percent(12.34))
	assert.Equal(t, Missing, Percent(math.NaN()))
}
