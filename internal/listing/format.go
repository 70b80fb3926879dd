package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dyluth/catalog/pkg/catalog"
)

// FormatTable writes products as a formatted table to the provided writer.
// The table includes columns: ID, NAME, DESCRIPTION (truncated), RELEASE, REVISION.
// matched is the number of products that passed the filters; when larger than
// the page a "showing N of M" footer is printed.
func FormatTable(w io.Writer, products []*catalog.Product, matched int, instanceName string) int {
	if len(products) == 0 {
		fmt.Fprintf(w, "No products found for instance '%s'\n", instanceName)
		return 0
	}

	fmt.Fprintf(w, "Products for instance '%s':\n\n", instanceName)

	fmt.Fprintf(w, "%-10s %-24s %-40s %-10s %-10s\n",
		"ID", "NAME", "DESCRIPTION", "RELEASE", "REVISION")
	fmt.Fprintf(w, "%-10s %-24s %-40s %-10s %-10s\n",
		"----------", "------------------------", "----------------------------------------", "----------", "----------")

	for _, p := range products {
		fmt.Fprintf(w, "%-10s %-24s %-40s %-10s %-10s\n",
			p.ID,
			truncate(p.Name, 24),
			truncate(firstLine(p.Description), 40),
			orDash(p.DateRelease),
			orDash(p.DateRevision),
		)
	}

	countMsg := "product"
	if matched != 1 {
		countMsg = "products"
	}
	if matched > len(products) {
		fmt.Fprintf(w, "\nShowing %d of %d %s\n", len(products), matched, countMsg)
	} else {
		fmt.Fprintf(w, "\n%d %s found\n", matched, countMsg)
	}

	return len(products)
}

// FormatJSONL writes products as line-delimited JSON (JSONL) to the provided writer.
func FormatJSONL(w io.Writer, products []*catalog.Product) error {
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal product to JSON: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n", string(data)); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}

	return nil
}

// FormatSingleJSON writes a single product as pretty-printed JSON.
func FormatSingleJSON(w io.Writer, p *catalog.Product) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal product to JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)

	return nil
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// truncate shortens s to max runes, ending in "..." when cut. Empty values return "-".
func truncate(s string, max int) string {
	if s == "" {
		return "-"
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
