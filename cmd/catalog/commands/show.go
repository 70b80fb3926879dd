package commands

import (
	"fmt"

	"github.com/dyluth/catalog/internal/form"
	"github.com/dyluth/catalog/internal/listing"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/dyluth/catalog/pkg/catalog"
	"github.com/spf13/cobra"
)

var showField string

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored product",
	Long: `Print a stored product as JSON, or a single field of it with --field.

Field names match the form (releaseDate) or the record (date_release).
Dates are printed as calendar dates.

Examples:
  catalog show trj-crd
  catalog show trj-crd --field date_release`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showField, "field", "f", "", "Print only this field")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	var field form.Field
	if showField != "" {
		f, err := form.ParseField(showField)
		if err != nil {
			return err
		}
		field = f
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := connectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	product, err := store.GetProduct(ctx, id)
	if err != nil {
		if catalog.IsNotFound(err) {
			return printer.Error(
				fmt.Sprintf("product '%s' not found", id),
				fmt.Sprintf("No product with ID '%s' is registered in instance '%s'.", id, cfg.Instance),
				[]string{"List registered products:\n  catalog list"},
			)
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	if field != "" {
		fmt.Fprintln(cmd.OutOrStdout(), form.ValueOf(product, field))
		return nil
	}
	return listing.FormatSingleJSON(cmd.OutOrStdout(), product)
}
