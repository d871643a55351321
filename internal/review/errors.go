package review

import "errors"

// ErrInvalidPerformance is returned for a rating outside good, ok and bad.
// Use errors.Is to check.
var ErrInvalidPerformance = errors.New("review: invalid performance")
