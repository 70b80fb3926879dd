package listing

import (
	"context"
	"fmt"
	"io"

	"github.com/dyluth/catalog/pkg/catalog"
)

// OutputFormat specifies how to format the product list output.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format with truncated descriptions
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs complete products as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"
)

// Lister reads every product of an instance. *catalog.Client satisfies it.
type Lister interface {
	ListProducts(ctx context.Context) ([]*catalog.Product, error)
}

// ListProducts retrieves products, applies the criteria and writes them in the requested format.
func ListProducts(ctx context.Context, lister Lister, instanceName string, format OutputFormat, criteria *Criteria, w io.Writer) error {
	products, err := lister.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	if criteria == nil {
		criteria = &Criteria{}
	}
	page, matched := criteria.Apply(products)

	switch format {
	case OutputFormatDefault:
		FormatTable(w, page, matched, instanceName)
	case OutputFormatJSONL:
		if err := FormatJSONL(w, page); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}
