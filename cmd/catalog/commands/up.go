package commands

import (
	"context"
	"fmt"
	"time"

	dockerpkg "github.com/dyluth/catalog/internal/docker"
	"github.com/dyluth/catalog/internal/instance"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start a catalog instance",
	Long: `Start a managed Redis container for a catalog instance.

The container is labelled with the instance name and its port is published on
127.0.0.1. Other commands find it by name, so no --redis-url is needed
afterwards.

Examples:
  catalog up
  catalog up --instance staging`,
	Args: cobra.NoArgs,
	RunE: runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := cfg.Instance

	if err := instance.ValidateName(name); err != nil {
		return printer.Error("invalid instance name", err.Error(), nil)
	}

	cli, err := dockerpkg.NewClient(ctx)
	if err != nil {
		return err
	}
	defer cli.Close()

	existing, err := instance.FindInstanceContainers(ctx, cli, name)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return printer.ErrorWithContext(
			fmt.Sprintf("instance '%s' already exists", name),
			"Containers for this instance are already present.",
			map[string]string{"Status": string(instance.DetermineStatus(existing))},
			[]string{
				fmt.Sprintf("Stop it first:\n  catalog down --instance %s", name),
				"Choose another name:\n  catalog up --instance <name>",
			},
		)
	}

	port, err := instance.FindNextAvailablePort(ctx, cli)
	if err != nil {
		return fmt.Errorf("failed to allocate Redis port: %w", err)
	}

	printer.Step("Starting Redis (%s) on port %d...\n", cfg.Store.Image, port)
	_, err = dockerpkg.StartRedis(ctx, cli, dockerpkg.RedisSpec{
		InstanceName: name,
		RunID:        dockerpkg.GenerateRunID(),
		Image:        cfg.Store.Image,
		HostPort:     port,
	})
	if err != nil {
		return err
	}

	url := instance.GetRedisURL(port)
	if err := waitForRedis(ctx, url, 10*time.Second); err != nil {
		return printer.ErrorWithContext(
			"Redis did not become ready",
			"The container started but Redis is not answering.",
			map[string]string{"URL": url, "Error": err.Error()},
			[]string{fmt.Sprintf("Inspect the container:\n  docker logs %s", dockerpkg.RedisContainerName(name))},
		)
	}

	printer.Success("\nInstance '%s' is running\n", name)
	printer.Info("  Redis: %s\n", url)
	return nil
}

// waitForRedis pings url until it answers or timeout elapses.
func waitForRedis(ctx context.Context, url string, timeout time.Duration) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		err := rdb.Ping(ctx).Err()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return err
		case <-ticker.C:
		}
	}
}
