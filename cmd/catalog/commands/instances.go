package commands

import (
	"encoding/json"
	"fmt"
	"io"

	dockerpkg "github.com/dyluth/catalog/internal/docker"
	"github.com/dyluth/catalog/internal/instance"
	"github.com/spf13/cobra"
)

var instancesJSON bool

var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List catalog instances",
	Long: `List the managed catalog instances on this machine by querying Docker for
containers with the catalog.project label.

For each instance, displays:
  • Instance name
  • Status (Running/Degraded/Stopped)
  • Redis port

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runInstances,
}

func init() {
	instancesCmd.Flags().BoolVar(&instancesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(instancesCmd)
}

func runInstances(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cli, err := dockerpkg.NewClient(ctx)
	if err != nil {
		return err
	}
	defer cli.Close()

	infos, err := instance.ListInstances(ctx, cli)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if instancesJSON {
		return outputInstancesJSON(out, infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, "No catalog instances found.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'catalog up' to start a new instance.")
		return nil
	}

	outputInstancesTable(out, infos)
	return nil
}

func outputInstancesJSON(w io.Writer, infos []instance.InstanceInfo) error {
	if infos == nil {
		infos = []instance.InstanceInfo{}
	}
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal instances: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputInstancesTable(w io.Writer, infos []instance.InstanceInfo) {
	fmt.Fprintf(w, "%-20s %-10s %s\n", "INSTANCE", "STATUS", "REDIS PORT")

	for _, info := range infos {
		port := "-"
		if info.RedisPort > 0 {
			port = fmt.Sprintf("%d", info.RedisPort)
		}
		fmt.Fprintf(w, "%-20s %-10s %s\n", info.Name, info.Status, port)
	}
}
