package commands

import (
	"fmt"

	"github.com/docker/docker/api/types/container"
	dockerpkg "github.com/dyluth/catalog/internal/docker"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop a catalog instance",
	Long: `Stop and remove the containers of a catalog instance, including the
Redis data volume. The command does not prompt for confirmation.

Examples:
  catalog down
  catalog down --instance staging`,
	Args: cobra.NoArgs,
	RunE: runDown,
}

func init() {
	rootCmd.AddCommand(downCmd)
}

func runDown(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := cfg.Instance

	cli, err := dockerpkg.NewClient(ctx)
	if err != nil {
		return err
	}
	defer cli.Close()

	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: dockerpkg.InstanceFilter(name),
	})
	if err != nil {
		return fmt.Errorf("failed to list containers: %w", err)
	}

	if len(containers) == 0 {
		return printer.Error(
			fmt.Sprintf("instance '%s' not found", name),
			fmt.Sprintf("No containers found with instance name '%s'.", name),
			[]string{"Run 'catalog instances' to see available instances"},
		)
	}

	// Stop containers (10s graceful timeout)
	timeout := 10
	for _, c := range containers {
		containerName := c.Names[0]
		printer.Step("Stopping %s...\n", containerName)
		if err := cli.ContainerStop(ctx, c.ID, container.StopOptions{Timeout: &timeout}); err != nil {
			// Log but continue - container might already be stopped
			printer.Warning("failed to stop %s: %v\n", containerName, err)
		}
	}

	for _, c := range containers {
		containerName := c.Names[0]
		printer.Step("Removing %s...\n", containerName)
		if err := cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true, RemoveVolumes: true}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", containerName, err)
		}
	}

	printer.Success("\nInstance '%s' removed successfully\n", name)
	return nil
}
