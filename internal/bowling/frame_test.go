package bowling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name    string
		frameID int
		rolls   []string
	}{
		{"strike", 3, []string{"X"}},
		{"lowercase strike", 3, []string{"x"}},
		{"spare", 4, []string{"6", "/"}},
		{"open", 5, []string{"3", "5"}},
		{"open totalling ten", 5, []string{"4", "6"}},
		{"gutter", 1, []string{"0", "0"}},
		{"tenth with three rolls", 10, []string{"X", "7", "2"}},
		{"tenth all strikes", 10, []string{"X", "X", "X"}},
		{"tenth spare and bonus", 10, []string{"8", "/", "8"}},
		{"tenth open with two rolls", 10, []string{"3", "4"}},
		{"tenth open with a third roll", 10, []string{"3", "4", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rolls, err := Validate(tt.frameID, tt.rolls)
			require.NoError(t, err)
			assert.Len(t, rolls, len(tt.rolls))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		frameID int
		rolls   []string
	}{
		{"extra roll in normal frame", 2, []string{"3", "5", "1"}},
		{"sum exceeding ten", 3, []string{"7", "6"}},
		{"six and six", 1, []string{"6", "6"}},
		{"spare first", 5, []string{"/", "5"}},
		{"strike with two rolls", 6, []string{"X", "/"}},
		{"strike with a pin roll", 6, []string{"X", "3"}},
		{"single open roll", 2, []string{"4"}},
		{"no rolls", 2, nil},
		{"spare with a third roll", 2, []string{"5", "/", "3"}},
		{"strike after pins", 2, []string{"5", "X"}},
		{"spare after strike in tenth", 10, []string{"X", "/", "5"}},
		{"spare in third slot", 10, []string{"X", "5", "/"}},
		{"tenth with one roll", 10, []string{"X"}},
		{"tenth with four rolls", 10, []string{"X", "X", "X", "X"}},
		{"frame zero", 0, []string{"3", "4"}},
		{"frame eleven", 11, []string{"3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.frameID, tt.rolls)
			assert.ErrorIs(t, err, ErrInvalidFrame)
		})
	}
}

func TestValidateUnparseableToken(t *testing.T) {
	for _, rolls := range [][]string{{"11", "0"}, {"-1", "5"}, {"X", "2", "11"}, {"X", "X", "11"}} {
		_, err := Validate(10, rolls)
		assert.ErrorIs(t, err, ErrInvalidFrame)
		assert.ErrorIs(t, err, ErrInvalidRoll)
	}
}

func TestValidateErrorNamesFrame(t *testing.T) {
	_, err := Validate(7, []string{"7", "6"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 7")

	_, err = Validate(2, []string{"q", "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"q"`)
}
