package scheduler

import "math"

// Box buckets an interval into a display box from 1 to 5.
func Box(interval int) int {
	switch {
	case interval <= 1:
		return 1
	case interval <= 3:
		return 2
	case interval <= 7:
		return 3
	case interval <= 21:
		return 4
	default:
		return 5
	}
}

// StrengthScore combines answer accuracy with interval growth into a 0-100
// display score. It is 0 for items that were never answered.
func StrengthScore(correct, wrong, interval, retirementInterval int) int {
	total := correct + wrong
	if total == 0 {
		return 0
	}
	accuracy := float64(correct) / float64(total)
	growth := 0.0
	if retirementInterval > 0 {
		growth = float64(min(interval, retirementInterval)) / float64(retirementInterval)
	}
	return int(math.Round(100 * (0.5*accuracy + 0.5*growth)))
}
