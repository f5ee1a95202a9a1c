package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice_Valid(t *testing.T) {
	cases := map[string]Price{
		"0.00":    0,
		"100.00":  10000,
		"150.50":  15050,
		"9999.99": 999999,
		"0.01":    1,
		"1000.00": 100000,
	}
	for input, want := range cases {
		got, err := ParsePrice(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParsePrice_Rejects(t *testing.T) {
	invalid := []string{
		"-1.00",
		"100",
		"100.0",
		"100.000",
		".00",
		"",
		"abc",
		"100.ab",
	}
	for _, input := range invalid {
		_, err := ParsePrice(input)
		assert.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrInvalidInput), input)
	}
}
