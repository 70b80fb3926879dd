package form

import "fmt"

// Message returns the display text for the highest-priority violation in v.
// It returns "" when v is empty.
func Message(field Field, v Violations) string {
	if len(v) == 0 {
		return ""
	}

	switch v[0] {
	case ViolationRequired:
		return "This field is required!"
	case ViolationIDLength:
		return "Invalid ID!"
	case ViolationTooShort:
		min, _, _ := Limits(field)
		return fmt.Sprintf("Minimum %d characters", min)
	case ViolationTooLong:
		_, max, _ := Limits(field)
		return fmt.Sprintf("Maximum %d characters", max)
	case ViolationInvalidDate:
		switch field {
		case FieldReleaseDate:
			return "The date must be today or later"
		case FieldRevisionDate:
			return "The date must be at least one year after the release date"
		}
		return "Invalid date"
	case ViolationIDExists:
		return "This ID already exists!"
	}
	return "Invalid field"
}
