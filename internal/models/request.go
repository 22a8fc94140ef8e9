package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	// FirstYear is the oldest year the archive serves
	FirstYear = 2000

	MinDay = 1
	// MaxDay caps day-of-year; leap day 366 is never requested
	MaxDay = 365
)

var ErrInvalidRequest = errors.New("invalid image request")

// ImageRequest identifies one archive frame
type ImageRequest struct {
	Year int
	Day  int
}

// FileName returns the archive file name, e.g. ims2015045.gif
func (r ImageRequest) FileName() string {
	return fmt.Sprintf("ims%d%03d.gif", r.Year, r.Day)
}

func (r ImageRequest) String() string {
	return fmt.Sprintf("%d day %03d", r.Year, r.Day)
}

// Validate checks the request against the archive range as of now
func (r ImageRequest) Validate(now time.Time) error {
	if r.Year < FirstYear || r.Year > now.Year() {
		return fmt.Errorf("%w: year %d outside %d..%d", ErrInvalidRequest, r.Year, FirstYear, now.Year())
	}
	if r.Day < MinDay || r.Day > MaxDay {
		return fmt.Errorf("%w: day %d outside %d..%d", ErrInvalidRequest, r.Day, MinDay, MaxDay)
	}
	return nil
}
