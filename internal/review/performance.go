package review

import (
	"encoding"
	"fmt"
	"strings"
)

// Performance is the self-assessed result of a review.
type Performance int

const (
	Good Performance = iota + 1 // Recalled well.
	OK                          // Recalled with effort.
	Bad                         // Not recalled.
)

var (
	performanceNames  = [...]string{Good: "good", OK: "ok", Bad: "bad"}
	performanceByName = map[string]Performance{
		"good": Good,
		"ok":   OK,
		"bad":  Bad,
	}
)

var (
	_ fmt.Stringer             = Performance(0)
	_ encoding.TextMarshaler   = Performance(0)
	_ encoding.TextUnmarshaler = (*Performance)(nil)
)

// ParsePerformance converts user input into a Performance. Surrounding
// whitespace and letter case are ignored.
func ParsePerformance(s string) (Performance, error) {
	p, ok := performanceByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPerformance, s)
	}
	return p, nil
}

// IsValid reports whether p is Good, OK or Bad.
func (p Performance) IsValid() bool {
	return p >= Good && p <= Bad
}

// String returns "good", "ok" or "bad", or "Performance(n)" for invalid values.
func (p Performance) String() string {
	if p.IsValid() {
		return performanceNames[p]
	}
	return fmt.Sprintf("Performance(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Performance) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPerformance, int(p))
	}
	return []byte(performanceNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the lowercase
// names are accepted here; use ParsePerformance for raw user input.
func (p *Performance) UnmarshalText(text []byte) error {
	v, ok := performanceByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPerformance, text)
	}
	*p = v
	return nil
}
