package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/catalog/internal/config"
	dockerpkg "github.com/dyluth/catalog/internal/docker"
	"github.com/dyluth/catalog/internal/instance"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/dyluth/catalog/pkg/catalog"
	"github.com/redis/go-redis/v9"
)

// resolveRedisURL finds the store: an explicit URL if one is configured,
// otherwise the published port of the instance's managed container.
func resolveRedisURL(ctx context.Context, cfg *config.CatalogConfig) (string, error) {
	if url := instance.ResolveRedisURL(redisURLFlag, cfg.Store.RedisURL); url != "" {
		return url, nil
	}

	cli, err := dockerpkg.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer cli.Close()

	if err := instance.VerifyInstanceRunning(ctx, cli, cfg.Instance); err != nil {
		return "", printer.Error(
			fmt.Sprintf("instance '%s' is not running", cfg.Instance),
			fmt.Sprintf("Error: %v", err),
			[]string{
				fmt.Sprintf("Start the instance:\n  catalog up --instance %s", cfg.Instance),
				"Use an existing Redis:\n  catalog --redis-url redis://localhost:6379 ...",
			},
		)
	}

	port, err := instance.GetInstanceRedisPort(ctx, cli, cfg.Instance)
	if err != nil {
		return "", printer.ErrorWithContext(
			"Redis port not found",
			fmt.Sprintf("Instance '%s' exists but its Redis port label is missing.", cfg.Instance),
			map[string]string{"Error": err.Error()},
			[]string{fmt.Sprintf("Restart the instance:\n  catalog down --instance %s\n  catalog up --instance %s", cfg.Instance, cfg.Instance)},
		)
	}

	return instance.GetRedisURL(port), nil
}

// connectStore opens and pings the instance's record store.
func connectStore(ctx context.Context, cfg *config.CatalogConfig) (*catalog.Client, error) {
	url, err := resolveRedisURL(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, printer.Error("invalid Redis URL", fmt.Sprintf("Could not parse %q: %v", url, err), nil)
	}

	client, err := catalog.NewClient(opts, cfg.Instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create store client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"record store unreachable",
			"Could not connect to Redis.",
			map[string]string{"URL": url, "Error": err.Error()},
			[]string{fmt.Sprintf("Check the instance is up:\n  catalog up --instance %s", cfg.Instance)},
		)
	}

	return client, nil
}
