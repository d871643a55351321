package review

// ladder holds the Leitner box intervals in days, ascending.
var ladder = [...]int{1, 3, 7, 14, 30}

// Ladder returns a copy of the review intervals in days.
func Ladder() []int {
	out := make([]int, len(ladder))
	copy(out, ladder[:])
	return out
}

// FirstInterval is the interval of the first box.
func FirstInterval() int { return ladder[0] }

// LastInterval is the interval of the last box.
func LastInterval() int { return ladder[len(ladder)-1] }

func ladderIndex(interval int) int {
	for i, v := range ladder {
		if v == interval {
			return i
		}
	}
	return -1
}

// NextInterval returns the interval a task moves to after a review with
// performance p. Good and OK advance one box and saturate at the last one;
// Bad and any interval that is not on the ladder restart at the first box.
func NextInterval(current int, p Performance) (int, error) {
	switch p {
	case Good, OK:
		if current == 0 {
			return ladder[0], nil
		}
		i := ladderIndex(current)
		switch {
		case i < 0:
			return ladder[0], nil
		case i == len(ladder)-1:
			return ladder[i], nil
		default:
			return ladder[i+1], nil
		}
	case Bad:
		return ladder[0], nil
	default:
		return 0, ErrInvalidPerformance
	}
}
