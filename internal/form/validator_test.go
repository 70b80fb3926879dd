package form

import (
	"strings"
	"testing"
	"time"

	"github.com/dyluth/catalog/internal/clock"
	"github.com/stretchr/testify/assert"
)

func newTestValidator() *Validator {
	return NewValidator(clock.NewManual(testStart), time.UTC)
}

func TestValidate_Identifier(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		value string
		want  Violations
	}{
		{"empty", "", Violations{ViolationRequired}},
		{"whitespace", "   ", Violations{ViolationRequired}},
		{"too short", "ab", Violations{ViolationIDLength}},
		{"minimum", "abc", nil},
		{"typical", "abc123", nil},
		{"maximum", "abcdefghij", nil},
		{"too long", "abcdefghijk", Violations{ViolationIDLength}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(FieldID, Values{FieldID: tt.value})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_LengthFields(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		field Field
		value string
		want  Violations
	}{
		{"name too short", FieldName, "abcd", Violations{ViolationTooShort}},
		{"name minimum", FieldName, "abcde", nil},
		{"name too long", FieldName, strings.Repeat("n", 101), Violations{ViolationTooLong}},
		{"name maximum", FieldName, strings.Repeat("n", 100), nil},
		{"description short", FieldDescription, "short", Violations{ViolationTooShort}},
		{"description minimum", FieldDescription, "0123456789", nil},
		{"description too long", FieldDescription, strings.Repeat("d", 201), Violations{ViolationTooLong}},
		{"description counts runes", FieldDescription, "ñññññññññ", Violations{ViolationTooShort}},
		{"logo required", FieldLogo, "", Violations{ViolationRequired}},
		{"logo any value", FieldLogo, "x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.field, Values{tt.field: tt.value})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_ReleaseDate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		value string
		want  Violations
	}{
		{"empty", "", Violations{ViolationRequired}},
		{"today despite time of day", "2026-10-14", nil},
		{"future", "2027-01-01", nil},
		{"yesterday", "2026-10-13", Violations{ViolationInvalidDate}},
		{"timestamp date part", "2026-10-14T00:00:00.000Z", nil},
		{"unparseable", "next tuesday", Violations{ViolationInvalidDate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(FieldReleaseDate, Values{FieldReleaseDate: tt.value})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_ReleaseDateUsesLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 02:00 UTC on the 15th is still the 14th in UTC-5
	mc := clock.NewManual(time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC))
	v := NewValidator(mc, loc)

	assert.Empty(t, v.Validate(FieldReleaseDate, Values{FieldReleaseDate: "2026-10-14"}))
}

func TestValidate_RevisionDateCalendarYear(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		release  string
		revision string
		want     Violations
	}{
		{"exactly one year", "2026-10-20", "2027-10-20", nil},
		{"one day short", "2026-10-20", "2027-10-19", Violations{ViolationInvalidDate}},
		{"leap day plus 365 days rejected", "2028-02-29", "2029-02-28", Violations{ViolationInvalidDate}},
		{"leap day plus one year", "2028-02-29", "2029-03-01", nil},
		{"365 days across leap day rejected", "2027-03-01", "2028-02-29", Violations{ViolationInvalidDate}},
		{"one year across leap day", "2027-03-01", "2028-03-01", nil},
		{"release absent skips rule", "", "2020-01-01", nil},
		{"release invalid skips rule", "garbage", "2020-01-01", nil},
		{"revision required", "2026-10-20", "", Violations{ViolationRequired}},
		{"revision unparseable", "2026-10-20", "soon", Violations{ViolationInvalidDate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := Values{FieldReleaseDate: tt.release, FieldRevisionDate: tt.revision}
			assert.Equal(t, tt.want, v.Validate(FieldRevisionDate, values))
		})
	}
}

func TestValidate_RevisionIgnoresReleaseBeforeToday(t *testing.T) {
	v := newTestValidator()

	// The release date itself being in the past does not stop the
	// revision rule from evaluating against it.
	values := Values{FieldReleaseDate: "2020-05-05", FieldRevisionDate: "2021-05-05"}
	assert.Empty(t, v.Validate(FieldRevisionDate, values))
	assert.Equal(t, Violations{ViolationInvalidDate}, v.Validate(FieldReleaseDate, values))
}

func TestViolations_SetOperations(t *testing.T) {
	var v Violations
	v = v.With(ViolationIDExists)
	v = v.With(ViolationRequired)
	v = v.With(ViolationIDExists)

	assert.Equal(t, Violations{ViolationRequired, ViolationIDExists}, v, "kept in priority order without duplicates")
	assert.True(t, v.Local())

	v = v.Without(ViolationRequired)
	assert.Equal(t, Violations{ViolationIDExists}, v)
	assert.False(t, v.Local(), "idExists is not a local violation")

	assert.Empty(t, v.Without(ViolationIDExists))
}

func TestParseField(t *testing.T) {
	for input, want := range map[string]Field{
		"id":            FieldID,
		"Name":          FieldName,
		"releaseDate":   FieldReleaseDate,
		"date_release":  FieldReleaseDate,
		"date_revision": FieldRevisionDate,
		"revision":      FieldRevisionDate,
		" logo ":        FieldLogo,
	} {
		got, err := ParseField(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseField("price")
	assert.Error(t, err)
}

func TestValueOf(t *testing.T) {
	p := existingProduct()
	assert.Equal(t, "trj-crd", ValueOf(p, FieldID))
	assert.Equal(t, "2026-11-01", ValueOf(p, FieldReleaseDate), "timestamp reduced to date part")
	assert.Equal(t, "2027-11-01", ValueOf(p, FieldRevisionDate))
	assert.Empty(t, ValueOf(p, Field("price")))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		field Field
		v     Violations
		want  string
	}{
		{FieldName, nil, ""},
		{FieldName, Violations{ViolationRequired}, "This field is required!"},
		{FieldID, Violations{ViolationIDLength}, "Invalid ID!"},
		{FieldName, Violations{ViolationTooShort}, "Minimum 5 characters"},
		{FieldDescription, Violations{ViolationTooShort}, "Minimum 10 characters"},
		{FieldDescription, Violations{ViolationTooLong}, "Maximum 200 characters"},
		{FieldReleaseDate, Violations{ViolationInvalidDate}, "The date must be today or later"},
		{FieldRevisionDate, Violations{ViolationInvalidDate}, "The date must be at least one year after the release date"},
		{FieldID, Violations{ViolationIDExists}, "This ID already exists!"},
		{FieldID, Violations{ViolationRequired, ViolationIDExists}, "This field is required!"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.field, tt.v), "%s %v", tt.field, tt.v)
	}
}
