package commands

import (
	"fmt"

	"github.com/dyluth/catalog/internal/listing"
	"github.com/spf13/cobra"
)

var (
	listSearch string
	listIDGlob string
	listLimit  int
	listOutput string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered products",
	Long: `List the products of an instance, ordered by ID.

--search matches name and description case-insensitively. --id filters by an
ID glob pattern. At most --limit products are shown.

Examples:
  catalog list
  catalog list --search card --limit 10
  catalog list --id 'trj-*' -o jsonl`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive search over name and description")
	listCmd.Flags().StringVar(&listIDGlob, "id", "", "Filter by ID glob pattern (e.g. 'trj-*')")
	listCmd.Flags().IntVar(&listLimit, "limit", listing.DefaultPageSize, "Maximum number of products shown")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "default", "Output format: default, jsonl")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := listing.OutputFormat(listOutput)
	if format != listing.OutputFormatDefault && format != listing.OutputFormatJSONL {
		return fmt.Errorf("invalid output format '%s': must be 'default' or 'jsonl'", listOutput)
	}
	if listLimit <= 0 {
		return fmt.Errorf("invalid limit %d: must be positive", listLimit)
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

	criteria := &listing.Criteria{
		SearchTerm: listSearch,
		IDGlob:     listIDGlob,
		PageSize:   listLimit,
	}
	return listing.ListProducts(ctx, store, cfg.Instance, format, criteria, cmd.OutOrStdout())
}
