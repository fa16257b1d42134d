package parse

import (
	"math"
	"strconv"
)

const (
	DefaultRollMin = 1
	DefaultRollMax = 6
	MaxDice        = 10
)

// Roll describes a validated /roll request. Keep equals Dice unless the caller asked to keep fewer.
type Roll struct {
	Min  int
	Max  int
	Dice int
	Keep int
}

// RollError carries the message shown to the user.
type RollError struct {
	Msg string
}

func (e *RollError) Error() string { return e.Msg }

// RollArgs reads positional arguments: [min max [numdice [keephighest]]].
func RollArgs(args []string) (Roll, error) {
	r := Roll{Min: DefaultRollMin, Max: DefaultRollMax, Dice: 1}
	if len(args) > 4 {
		return Roll{}, &RollError{"Usage: /roll [minimum maximum [numdice [keephighest]]]"}
	}

	nums := make([]float64, len(args))
	for i, a := range args {
		n, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Roll{}, &RollError{"Your minimum and maximum are not whole numbers, or one of your arguments is not a number."}
		}
		nums[i] = n
	}

	if len(nums) == 1 {
		return Roll{}, &RollError{"If you provide a minimum, you must also provide a maximum."}
	}
	if len(nums) >= 2 {
		if !whole(nums[0]) || !whole(nums[1]) {
			return Roll{}, &RollError{"Your minimum or maximum are not whole numbers."}
		}
		if nums[1] < nums[0] {
			return Roll{}, &RollError{"Your maximum must be greater than your minimum."}
		}
		r.Min, r.Max = int(nums[0]), int(nums[1])
	}
	if len(nums) >= 3 {
		if !whole(nums[2]) || nums[2] < 1 || nums[2] > MaxDice {
			return Roll{}, &RollError{"You can only roll between 1 and 10 whole dice."}
		}
		r.Dice = int(nums[2])
	}
	r.Keep = r.Dice
	if len(nums) == 4 {
		if !whole(nums[3]) || nums[3] <= 0 {
			return Roll{}, &RollError{"The number of dice you keep must be a <b>positive integer</b>."}
		}
		if int(nums[3]) > r.Dice {
			return Roll{}, &RollError{"The number of dice you keep must be lower than the number of dice you roll."}
		}
		r.Keep = int(nums[3])
	}
	return r, nil
}

func whole(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) < 1e9
}
