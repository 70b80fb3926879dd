package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrProductExists is returned when creating a product whose ID is already taken.
	ErrProductExists = errors.New("product already exists")

	// ErrProductNotFound is returned when updating or reading a product that does not exist.
	ErrProductNotFound = errors.New("product not found")
)

// Product is a catalog record.
// Dates are calendar dates in YYYY-MM-DD form.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

// ProductPatch carries the editable fields of an update.
// Nil fields are left unchanged. The ID is never editable.
type ProductPatch struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Logo         *string `json:"logo,omitempty"`
	DateRelease  *string `json:"date_release,omitempty"`
	DateRevision *string `json:"date_revision,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *ProductPatch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.Description == nil && p.Logo == nil &&
		p.DateRelease == nil && p.DateRevision == nil)
}

// Apply returns a copy of base with the patch applied.
func (p *ProductPatch) Apply(base Product) Product {
	if p == nil {
		return base
	}
	if p.Name != nil {
		base.Name = *p.Name
	}
	if p.Description != nil {
		base.Description = *p.Description
	}
	if p.Logo != nil {
		base.Logo = *p.Logo
	}
	if p.DateRelease != nil {
		base.DateRelease = *p.DateRelease
	}
	if p.DateRevision != nil {
		base.DateRevision = *p.DateRevision
	}
	return base
}

// Validate checks the structural requirements the store relies on.
// Content rules (lengths, dates) are enforced by the form before submission.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if len(p.ID) > MaxIDLength {
		return fmt.Errorf("id too long: %d characters (max: %d)", len(p.ID), MaxIDLength)
	}
	return nil
}

// MaxIDLength bounds the stored identifier so it cannot collide with key separators in practice.
const MaxIDLength = 64

// Severity is the category of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Validate checks that the severity is one of the known values.
func (s Severity) Validate() error {
	switch s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return nil
	default:
		return fmt.Errorf("invalid severity: %q", string(s))
	}
}

// NotificationEvent is the broadcast form of a notification published by a form session.
type NotificationEvent struct {
	ID            uint64   `json:"id"`              // Per-process identifier assigned by the publishing queue
	Message       string   `json:"message"`         // Display text
	Severity      Severity `json:"severity"`        // success, error, warning or info
	TTLMs         int64    `json:"ttl_ms"`          // 0 means never auto-dismiss
	PublishedAtMs int64    `json:"published_at_ms"` // Unix timestamp in milliseconds
	Source        string   `json:"source"`          // Publishing process, e.g. "create" or "edit"
}
