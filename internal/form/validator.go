package form

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dyluth/catalog/internal/clock"
	"github.com/dyluth/catalog/internal/timespec"
)

// Validator evaluates the per-field and cross-field rules.
// "Today" is read from the clock on every call and compared at day granularity
// in the validator's location.
type Validator struct {
	clock clock.Clock
	loc   *time.Location
}

// NewValidator creates a validator. A nil clock uses the real clock and a nil
// location uses time.Local.
func NewValidator(c clock.Clock, loc *time.Location) *Validator {
	if c == nil {
		c = clock.Real()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Validator{clock: c, loc: loc}
}

// Validate returns the violations of field given all current values.
// It has no side effects.
func (v *Validator) Validate(field Field, values Values) Violations {
	value := values[field]
	if strings.TrimSpace(value) == "" {
		return Violations{ViolationRequired}
	}

	switch field {
	case FieldID:
		if !withinLength(field, value) {
			return Violations{ViolationIDLength}
		}
	case FieldName, FieldDescription:
		r := lengthRules[field]
		n := utf8.RuneCountInString(value)
		if n < r.min {
			return Violations{ViolationTooShort}
		}
		if n > r.max {
			return Violations{ViolationTooLong}
		}
	case FieldReleaseDate:
		release, err := timespec.ParseDate(value, v.loc)
		if err != nil || release.Before(v.today()) {
			return Violations{ViolationInvalidDate}
		}
	case FieldRevisionDate:
		revision, err := timespec.ParseDate(value, v.loc)
		if err != nil {
			return Violations{ViolationInvalidDate}
		}
		release, err := timespec.ParseDate(values[FieldReleaseDate], v.loc)
		if err != nil {
			// No usable release date: only the required rule applies
			return nil
		}
		if revision.Before(timespec.AddYears(release, 1)) {
			return Violations{ViolationInvalidDate}
		}
	}

	return nil
}

func (v *Validator) today() time.Time {
	return timespec.Midnight(v.clock.Now(), v.loc)
}

func withinLength(field Field, value string) bool {
	r := lengthRules[field]
	n := utf8.RuneCountInString(value)
	return n >= r.min && n <= r.max
}
