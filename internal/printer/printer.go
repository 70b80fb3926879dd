package printer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/dyluth/catalog/pkg/catalog"
	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	// Color definitions
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Printf("✓ %s", msg)
	} else {
		green.Print(msg)
	}
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow with a warning emoji prefix
func Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		yellow.Printf("⚠️  %s", msg)
	} else {
		yellow.Print(msg)
	}
}

// errOut receives formatted errors. Tests replace it to capture output.
var errOut io.Writer = os.Stderr

// Error creates a formatted error message with title, explanation, and suggestions
// Prints the formatted error to stderr with colors and returns a simple error for Cobra
func Error(title string, explanation string, suggestions []string) error {
	return ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext creates a formatted error with context details, printed in key order.
// Prints the formatted error to stderr with colors and returns a simple error for Cobra
func ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(errOut, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(errOut, "%s\n", explanation)
	}

	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for key := range context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintln(errOut)
		for _, key := range keys {
			fmt.Fprintf(errOut, "  %s: %s\n", key, context[key])
		}
	}

	writeSuggestions(errOut, suggestions)

	// Return simple error for Cobra (won't be printed due to SilenceErrors)
	return fmt.Errorf("%s", title)
}

func writeSuggestions(w io.Writer, suggestions []string) {
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(w, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(w, "\nEither:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, suggestion)
		}
	}
}

// Step prints a step message with emphasis (used in multi-step operations)
func Step(format string, a ...any) {
	cyan.Printf("→ %s", fmt.Sprintf(format, a...))
}

// Icon returns the symbol shown in front of a notification of the given severity.
func Icon(severity catalog.Severity) string {
	switch severity {
	case catalog.SeveritySuccess:
		return "✓"
	case catalog.SeverityError:
		return "✕"
	case catalog.SeverityWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

func severityColor(severity catalog.Severity) *color.Color {
	switch severity {
	case catalog.SeveritySuccess:
		return green
	case catalog.SeverityError:
		return red
	case catalog.SeverityWarning:
		return yellow
	default:
		return cyan
	}
}

// Renderer draws notifications as they appear and disappear.
// It is safe for concurrent use.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Notification prints a live notification line.
func (r *Renderer) Notification(severity catalog.Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	severityColor(severity).Fprintf(r.w, "%s %s\n", Icon(severity), message)
}

// Dismissed prints a faint line for a notification leaving the display.
func (r *Renderer) Dismissed(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	faint.Fprintf(r.w, "  (dismissed) %s\n", message)
}

// FieldError prints a field-level validation message.
func (r *Renderer) FieldError(field, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	red.Fprintf(r.w, "  %s %s: ", Icon(catalog.SeverityError), field)
	fmt.Fprintf(r.w, "%s\n", message)
}
