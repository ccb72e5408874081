package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat(t *testing.T) {
	assert.Equal(t, 100.0, ToFloat("100"))
	assert.Equal(t, 2.5, ToFloat(" 2.5 "))
	assert.Equal(t, 0.0, ToFloat(""))
	assert.Equal(t, 0.0, ToFloat("abc"))
	assert.Equal(t, 12.0, ToFloat(12))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool("True"))
	assert.True(t, ToBool(1))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(nil))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 95.24, Round2(100.0/1.05))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 2.68, Round2(2.675000001))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"T1", "T2"}, SplitCSV("T1, T2"))
	assert.Nil(t, SplitCSV("  "))
	assert.Equal(t, []string{"A"}, SplitCSV("A,"))
}
