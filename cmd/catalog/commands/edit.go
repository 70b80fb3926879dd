package commands

import (
	"fmt"

	"github.com/dyluth/catalog/internal/form"
	"github.com/dyluth/catalog/internal/listing"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/dyluth/catalog/pkg/catalog"
	"github.com/spf13/cobra"
)

var editFields map[form.Field]*string

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update an existing product",
	Long: `Update an existing product through the validated form.

The form is loaded with the stored product and the ID is locked. Only the
flags given are changed; every field, including unchanged ones, must still be
valid for the update to be submitted. On success the product listing is shown.

Examples:
  catalog edit trj-crd --name "Platinum Credit Card"
  catalog edit trj-crd --release 2026-12-01 --revision 2027-12-01`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editFields = registerFieldFlags(editCmd, form.FieldID)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := connectStore(ctx, cfg)
	if err != nil {
		return err
	}

	product, err := store.GetProduct(ctx, id)
	if err != nil {
		store.Close()
		if catalog.IsNotFound(err) {
			return printer.Error(
				fmt.Sprintf("product '%s' not found", id),
				fmt.Sprintf("No product with ID '%s' is registered in instance '%s'.", id, cfg.Instance),
				[]string{"List registered products:\n  catalog list"},
			)
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	runner, err := newFormRunner(cmd.OutOrStdout(), cfg, store, newLogger(cfg).With("source", "edit"), "edit", product)
	if err != nil {
		return err
	}
	defer runner.close()

	if err := runner.apply(changedValues(cmd, editFields)); err != nil {
		return err
	}

	if err := runner.submit(ctx, "product not updated"); err != nil {
		return err
	}

	if runner.nav.path == form.ListingPath {
		fmt.Fprintln(runner.out)
		return listing.ListProducts(ctx, store, cfg.Instance, listing.OutputFormatDefault, &listing.Criteria{}, runner.out)
	}
	return nil
}
