// Package listing filters and formats product lists for the CLI.
package listing

import (
	"path/filepath"
	"strings"

	"github.com/dyluth/catalog/pkg/catalog"
)

// DefaultPageSize is the number of products shown when no page size is given.
const DefaultPageSize = 5

// Criteria defines filtering criteria for products.
// All filters are ANDed together - a product must match ALL criteria to pass.
type Criteria struct {
	SearchTerm string // Case-insensitive substring of name or description, empty = no filter
	IDGlob     string // Glob pattern for product ID, empty = no filter
	PageSize   int    // Maximum products returned, 0 = DefaultPageSize, negative = no limit
}

// Matches returns true if the product matches all filter criteria.
func (c *Criteria) Matches(p *catalog.Product) bool {
	if term := strings.ToLower(strings.TrimSpace(c.SearchTerm)); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}

	if c.IDGlob != "" {
		matched, err := filepath.Match(c.IDGlob, p.ID)
		if err != nil || !matched {
			return false
		}
	}

	return true
}

// Apply filters products and truncates the result to the page size.
// It returns the page and the number of products that matched before truncation.
func (c *Criteria) Apply(products []*catalog.Product) (page []*catalog.Product, matched int) {
	for _, p := range products {
		if c.Matches(p) {
			page = append(page, p)
		}
	}
	matched = len(page)

	size := c.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	if size > 0 && len(page) > size {
		page = page[:size]
	}
	return page, matched
}
