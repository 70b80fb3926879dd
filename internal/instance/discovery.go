package instance

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	dockerpkg "github.com/dyluth/catalog/internal/docker"
)

// GetInstanceRedisPort retrieves the Redis port for the given instance from Docker labels.
// Returns an error if the Redis container is not found or the port label is missing.
func GetInstanceRedisPort(ctx context.Context, cli *client.Client, instanceName string) (int, error) {
	filter := dockerpkg.InstanceFilter(instanceName)
	filter.Add("label", fmt.Sprintf("%s=%s", dockerpkg.LabelComponent, dockerpkg.ComponentRedis))

	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filter,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list containers: %w", err)
	}

	if len(containers) == 0 {
		return 0, fmt.Errorf("Redis container not found for instance '%s'", instanceName)
	}

	return redisPortFromLabels(instanceName, containers[0].Labels)
}

func redisPortFromLabels(instanceName string, labels map[string]string) (int, error) {
	portStr, ok := labels[dockerpkg.LabelRedisPort]
	if !ok {
		return 0, fmt.Errorf("Redis port label missing for instance '%s'", instanceName)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid Redis port '%s': %w", portStr, err)
	}

	return port, nil
}

// VerifyInstanceRunning checks that the instance's Redis container exists and is running.
func VerifyInstanceRunning(ctx context.Context, cli *client.Client, instanceName string) error {
	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: dockerpkg.InstanceFilter(instanceName),
	})
	if err != nil {
		return fmt.Errorf("failed to list containers: %w", err)
	}

	if len(containers) == 0 {
		return fmt.Errorf("instance '%s' not found", instanceName)
	}

	for _, c := range containers {
		if c.Labels[dockerpkg.LabelComponent] != dockerpkg.ComponentRedis {
			continue
		}
		if c.State != "running" {
			return fmt.Errorf("instance '%s' is not running (component 'redis' is %s)", instanceName, c.State)
		}
		return nil
	}

	return fmt.Errorf("instance '%s' is missing essential component 'redis'", instanceName)
}

// ListInstances returns every catalog instance known to Docker, sorted by name.
func ListInstances(ctx context.Context, cli *client.Client) ([]InstanceInfo, error) {
	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: dockerpkg.ProjectFilter(""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	return groupInstances(containers), nil
}

func groupInstances(containers []containerSummary) []InstanceInfo {
	byName := make(map[string][]containerSummary)
	for _, c := range containers {
		name := c.Labels[dockerpkg.LabelInstanceName]
		if name == "" {
			continue
		}
		byName[name] = append(byName[name], c)
	}

	infos := make([]InstanceInfo, 0, len(byName))
	for name, group := range byName {
		info := InstanceInfo{Name: name, Status: DetermineStatus(group)}
		for _, c := range group {
			if c.Labels[dockerpkg.LabelComponent] == dockerpkg.ComponentRedis {
				if port, err := redisPortFromLabels(name, c.Labels); err == nil {
					info.RedisPort = port
				}
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
