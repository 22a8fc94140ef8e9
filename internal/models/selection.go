package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrInvalidDay  = errors.New("day of year must be a number from 1 to 365")
	ErrInvalidYear = errors.New("year outside archive range")
)

// SelectionOption configures a DateSelection
type SelectionOption func(*DateSelection)

// WithClock overrides the time source used for "today"
func WithClock(clock func() time.Time) SelectionOption {
	return func(s *DateSelection) {
		s.clock = clock
	}
}

// DateSelection holds the shared day-of-year and the per-panel years.
// It is owned by the UI thread; every mutation reports the panels to redraw.
type DateSelection struct {
	day   int
	years [len(Panels)]int
	clock func() time.Time
}

// NewDateSelection starts at today's day with both panels on the current year
func NewDateSelection(opts ...SelectionOption) *DateSelection {
	s := &DateSelection{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	now := s.clock()
	s.day = DayOfYear(now)
	for _, p := range Panels {
		s.years[p] = now.Year()
	}
	return s
}

func (s *DateSelection) Day() int {
	return s.day
}

func (s *DateSelection) Year(p Panel) int {
	return s.years[p]
}

// Request derives the archive request for a panel
func (s *DateSelection) Request(p Panel) ImageRequest {
	return ImageRequest{Year: s.years[p], Day: s.day}
}

// Now exposes the selection clock
func (s *DateSelection) Now() time.Time {
	return s.clock()
}

func (s *DateSelection) SetToday() PanelSet {
	s.day = DayOfYear(s.clock())
	return Both
}

// SetDay accepts only a plain decimal number in [1,365]; anything else
// leaves the day untouched and returns ErrInvalidDay.
func (s *DateSelection) SetDay(text string) (PanelSet, error) {
	if !isDigits(text) {
		return NoPanels, fmt.Errorf("%w: %q", ErrInvalidDay, text)
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < MinDay || n > MaxDay {
		return NoPanels, fmt.Errorf("%w: %q", ErrInvalidDay, text)
	}
	s.day = n
	return Both, nil
}

func (s *DateSelection) IncrementDay() PanelSet {
	s.day = clampDay(s.day + 1)
	return Both
}

func (s *DateSelection) DecrementDay() PanelSet {
	s.day = clampDay(s.day - 1)
	return Both
}

// SetYear changes one panel's year; the other panel is not affected
func (s *DateSelection) SetYear(p Panel, year int) (PanelSet, error) {
	if p != Left && p != Right {
		return NoPanels, fmt.Errorf("unknown panel %d", p)
	}
	if current := s.clock().Year(); year < FirstYear || year > current {
		return NoPanels, fmt.Errorf("%w: %d not in %d..%d", ErrInvalidYear, year, FirstYear, current)
	}
	s.years[p] = year
	return Only(p), nil
}

// DayOfYear counts January 1 as day 1. Day 366 folds onto 365.
func DayOfYear(t time.Time) int {
	return clampDay(t.YearDay())
}

// YearChoices lists selectable years, newest first
func YearChoices(now time.Time) []string {
	choices := make([]string, 0, now.Year()-FirstYear+1)
	for y := now.Year(); y >= FirstYear; y-- {
		choices = append(choices, strconv.Itoa(y))
	}
	return choices
}

func clampDay(day int) int {
	return max(MinDay, min(day, MaxDay))
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
