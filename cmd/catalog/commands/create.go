package commands

import (
	"github.com/dyluth/catalog/internal/form"
	"github.com/spf13/cobra"
)

var createFields map[form.Field]*string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new product",
	Long: `Register a new product through the validated form.

Each flag is entered into the form as a field. The product ID is checked
against the registry before submission; submission is refused while any
field is invalid, and every problem is listed.

Examples:
  catalog create --id trj-crd --name "Credit Card" \
    --description "Consumer credit card" --logo https://example.com/logo.png \
    --release 2026-11-01 --revision 2027-11-01`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createFields = registerFieldFlags(createCmd, "")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runner, err := openForm(ctx, cmd, cfg, "create", nil)
	if err != nil {
		return err
	}
	defer runner.close()

	if err := runner.apply(changedValues(cmd, createFields)); err != nil {
		return err
	}
	runner.verifyID(ctx)

	return runner.submit(ctx, "product not created")
}
