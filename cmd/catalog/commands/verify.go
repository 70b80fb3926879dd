package commands

import (
	"fmt"

	"github.com/dyluth/catalog/internal/form"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Check whether a product ID can be registered",
	Long: `Check a product ID the way the create form does: its length first, then
whether it is already registered.

Examples:
  catalog verify trj-crd`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runner, err := openForm(ctx, cmd, cfg, "verify", nil)
	if err != nil {
		return err
	}
	defer runner.close()

	if err := runner.apply(map[form.Field]string{form.FieldID: id}); err != nil {
		return err
	}
	runner.verifyID(ctx)

	if runner.failed() {
		return fmt.Errorf("could not verify id %q", id)
	}
	if runner.session.IsFieldInvalid(form.FieldID) {
		printer.NewRenderer(runner.out).FieldError("id", runner.session.ErrorMessage(form.FieldID))
		return fmt.Errorf("id %q cannot be registered", id)
	}

	fmt.Fprintf(runner.out, "ID '%s' is available\n", id)
	return nil
}
