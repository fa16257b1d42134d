package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"2h", 2 * time.Hour},
		{"90m", 90 * time.Minute},
		{"1d 3h", 27 * time.Hour},
		{"1d3h", 27 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"45s", 45 * time.Second},
		{"2 hours", 2 * time.Hour},
		{"1 hour and 30 minutes", 90 * time.Minute},
		{"1.5h", 90 * time.Minute},
		{" 10 MIN ", 10 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Duration(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDurationInvalid(t *testing.T) {
	for _, in := range []string{"", "nonsense", "0h", "2", "2x", "soon 2h", "2h later", "300000w", "9000w 9000w 9000w 9000w"} {
		t.Run(in, func(t *testing.T) {
			_, err := Duration(in)
			assert.ErrorIs(t, err, ErrInvalidDuration)
		})
	}
}

func TestRollArgsDefaults(t *testing.T) {
	r, err := RollArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, Roll{Min: 1, Max: 6, Dice: 1, Keep: 1}, r)
}

func TestRollArgsCustom(t *testing.T) {
	r, err := RollArgs([]string{"1", "10", "3", "2"})
	require.NoError(t, err)
	assert.Equal(t, Roll{Min: 1, Max: 10, Dice: 3, Keep: 2}, r)

	r, err = RollArgs([]string{"5", "5", "4"})
	require.NoError(t, err)
	assert.Equal(t, Roll{Min: 5, Max: 5, Dice: 4, Keep: 4}, r)
}

func TestRollArgsValidation(t *testing.T) {
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{"min without max", []string{"10"}, "If you provide a minimum, you must also provide a maximum."},
		{"max below min", []string{"10", "5"}, "Your maximum must be greater than your minimum."},
		{"non integer", []string{"1.5", "5"}, "not whole numbers"},
		{"not a number", []string{"a", "5"}, "not whole numbers"},
		{"too many dice", []string{"1", "6", "20"}, "You can only roll between 1 and 10 whole dice."},
		{"zero dice", []string{"1", "6", "0"}, "You can only roll between 1 and 10 whole dice."},
		{"keep zero", []string{"1", "6", "2", "0"}, "The number of dice you keep must be a <b>positive integer</b>."},
		{"keep more than rolled", []string{"1", "6", "3", "4"}, "The number of dice you keep must be lower than the number of dice you roll."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RollArgs(tc.args)
			var rollErr *RollError
			require.ErrorAs(t, err, &rollErr)
			assert.Contains(t, rollErr.Msg, tc.msg)
		})
	}
}
