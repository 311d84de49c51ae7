// Package datetime converts between the wire date format used by the mobile
// client (DD/MM/YYYY HH:mm) and time.Time values stored in Firestore.
package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"
)

// Layout is the only format accepted by strict parsing and produced by Format.
const Layout = "02/01/2006 15:04"

// Hint is shown to API callers when a date is rejected.
const Hint = "DD/MM/YYYY HH:mm"

var ErrInvalidFormat = errors.New("invalid date/time format")

const wallClock = "2006-01-02 15:04:05"

var strictPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4} \d{2}:\d{2}$`)

// lenientLayouts are tried in order by ParseLenient.
var lenientLayouts = []string{
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:4",
	"2/1/2006",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// LoadNormalizer resolves an IANA zone name such as "America/Sao_Paulo".
func LoadNormalizer(zone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", zone, err)
	}
	return NewNormalizer(loc), nil
}

// Parse accepts exactly DD/MM/YYYY HH:mm with zero padding and a valid
// calendar date that exists in the configured zone.
func (n *Normalizer) Parse(text string) (time.Time, error) {
	if !strictPattern.MatchString(text) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	return n.parseIn(Layout, text)
}

// ParseLenient is used on creation. Besides the strict layout it tolerates
// missing zero padding, seconds, a bare date and ISO-8601 input.
func (n *Normalizer) ParseLenient(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if strictPattern.MatchString(text) {
		return n.Parse(text)
	}
	for _, layout := range lenientLayouts {
		if t, err := n.parseIn(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
}

// parseIn parses text in the configured zone and rejects wall clock times
// that the zone skips, such as the hour lost when daylight saving starts.
func (n *Normalizer) parseIn(layout, text string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, text, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	wall, err := time.Parse(layout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	if t.Format(wallClock) != wall.Format(wallClock) {
		return time.Time{}, fmt.Errorf("%w: %q does not exist in %s", ErrInvalidFormat, text, n.loc)
	}
	return t, nil
}

func (n *Normalizer) Format(t time.Time) string {
	return t.In(n.loc).Format(Layout)
}
