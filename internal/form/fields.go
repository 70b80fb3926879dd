package form

import (
	"fmt"
	"strings"

	"github.com/dyluth/catalog/internal/timespec"
	"github.com/dyluth/catalog/pkg/catalog"
)

// Field names a form control.
type Field string

const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldLogo         Field = "logo"
	FieldReleaseDate  Field = "releaseDate"
	FieldRevisionDate Field = "revisionDate"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldID,
	FieldName,
	FieldDescription,
	FieldLogo,
	FieldReleaseDate,
	FieldRevisionDate,
}

// ParseField resolves a field name. Matching is case-insensitive and
// also accepts the snake_case record names (date_release, date_revision) and
// the short command-line names (release, revision).
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id":
		return FieldID, nil
	case "name":
		return FieldName, nil
	case "description":
		return FieldDescription, nil
	case "logo":
		return FieldLogo, nil
	case "releasedate", "date_release", "release":
		return FieldReleaseDate, nil
	case "revisiondate", "date_revision", "revision":
		return FieldRevisionDate, nil
	default:
		return "", fmt.Errorf("unknown field: %q", name)
	}
}

// ValueOf returns the form value of field for p. Dates are reduced to their
// calendar-date part.
func ValueOf(p *catalog.Product, field Field) string {
	switch field {
	case FieldID:
		return p.ID
	case FieldName:
		return p.Name
	case FieldDescription:
		return p.Description
	case FieldLogo:
		return p.Logo
	case FieldReleaseDate:
		return timespec.NormalizeDate(p.DateRelease)
	case FieldRevisionDate:
		return timespec.NormalizeDate(p.DateRevision)
	default:
		return ""
	}
}

// Violation is a named reason a field fails validation.
type Violation string

const (
	ViolationRequired    Violation = "required"
	ViolationIDLength    Violation = "idLength"
	ViolationTooShort    Violation = "tooShort"
	ViolationTooLong     Violation = "tooLong"
	ViolationInvalidDate Violation = "invalidDate"
	ViolationIDExists    Violation = "idExists"
)

// priority orders violations for display; the first present one is reported.
var priority = []Violation{
	ViolationRequired,
	ViolationIDLength,
	ViolationTooShort,
	ViolationTooLong,
	ViolationInvalidDate,
	ViolationIDExists,
}

// Violations is a set of violations kept in priority order.
// An empty set means the field is valid.
type Violations []Violation

// Has reports whether v contains x.
func (v Violations) Has(x Violation) bool {
	for _, e := range v {
		if e == x {
			return true
		}
	}
	return false
}

// With returns a copy of v including x.
func (v Violations) With(x Violation) Violations {
	if v.Has(x) {
		return v.clone()
	}
	out := make(Violations, 0, len(v)+1)
	for _, p := range priority {
		if p == x || v.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Without returns a copy of v excluding x.
func (v Violations) Without(x Violation) Violations {
	out := make(Violations, 0, len(v))
	for _, e := range v {
		if e != x {
			out = append(out, e)
		}
	}
	return out
}

// Local reports whether v holds a violation produced by the local rules,
// i.e. anything other than the remote idExists result.
func (v Violations) Local() bool {
	for _, e := range v {
		if e != ViolationIDExists {
			return true
		}
	}
	return false
}

func (v Violations) clone() Violations {
	out := make(Violations, len(v))
	copy(out, v)
	return out
}

// Mode selects between creating a new record and editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// action is the verb used in user-facing messages.
func (m Mode) action() string {
	if m == ModeEdit {
		return "update"
	}
	return "create"
}

// Values maps each field to its raw input.
type Values map[Field]string

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

type lengthRule struct {
	min, max int
}

var lengthRules = map[Field]lengthRule{
	FieldID:          {min: 3, max: 10},
	FieldName:        {min: 5, max: 100},
	FieldDescription: {min: 10, max: 200},
}

// Limits returns the inclusive length bounds of a field, if it has any.
func Limits(f Field) (min, max int, ok bool) {
	r, ok := lengthRules[f]
	return r.min, r.max, ok
}
