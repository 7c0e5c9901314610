package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidClock = errors.New("invalid clock time")

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

const endOfDay Clock = 24 * 60

// ParseClock parses a 24-hour "HH:MM" string. "24:00" is accepted so a
// working day may run until midnight.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	c := Clock(h*60 + m)
	if h < 0 || m < 0 || m > 59 || c > endOfDay {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return c, nil
}

// MustParseClock is ParseClock for constants known to be valid.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

type Interval struct {
	Start Clock
	End   Clock
}

// ParseInterval parses "HH:MM-HH:MM".
func ParseInterval(s string) (Interval, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return Interval{}, fmt.Errorf("%w: interval %q", ErrInvalidClock, s)
	}
	start, err := ParseClock(a)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(b)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// Contains is inclusive on both ends.
func (i Interval) Contains(c Clock) bool {
	return c >= i.Start && c <= i.End
}

func (i Interval) Minutes() int { return int(i.End - i.Start) }

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

func (i Interval) valid() bool { return i.Start < i.End }
