package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// NewClient creates a Docker client and validates the daemon is accessible.
func NewClient(ctx context.Context) (*client.Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf(`Docker daemon not accessible: %w

A managed record store needs Docker. Either start Docker:
  • macOS: Docker Desktop
  • Linux: sudo systemctl start docker
or point catalog at an existing Redis with --redis-url / CATALOG_REDIS_URL`, err)
	}

	return cli, nil
}
