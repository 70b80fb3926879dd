package docker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

const redisContainerPort nat.Port = "6379/tcp"

// RedisSpec describes the record store container of an instance.
type RedisSpec struct {
	InstanceName string
	RunID        string
	Image        string
	HostPort     int
}

// ContainerConfig builds the Docker create options for the spec.
// The port is published on 127.0.0.1 only.
func (s RedisSpec) ContainerConfig() (*container.Config, *container.HostConfig) {
	labels := BuildLabels(s.InstanceName, s.RunID, ComponentRedis)
	labels[LabelRedisPort] = strconv.Itoa(s.HostPort)

	cfg := &container.Config{
		Image:  s.Image,
		Labels: labels,
		ExposedPorts: nat.PortSet{
			redisContainerPort: struct{}{},
		},
	}
	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			redisContainerPort: []nat.PortBinding{
				{
					HostIP:   "127.0.0.1",
					HostPort: strconv.Itoa(s.HostPort),
				},
			},
		},
		RestartPolicy: container.RestartPolicy{Name: "unless-stopped"},
	}
	return cfg, hostCfg
}

// StartRedis creates and starts the record store container. On a start failure
// the created container is removed again.
func StartRedis(ctx context.Context, cli *client.Client, spec RedisSpec) (string, error) {
	cfg, hostCfg := spec.ContainerConfig()
	name := RedisContainerName(spec.InstanceName)

	resp, err := cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("failed to create Redis container: %w", err)
	}

	if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("failed to start Redis container: %w", err)
	}

	return resp.ID, nil
}

// InstanceFilter selects every container labelled with the instance name.
func InstanceFilter(instanceName string) filters.Args {
	f := filters.NewArgs()
	f.Add("label", fmt.Sprintf("%s=%s", LabelInstanceName, instanceName))
	return f
}

// ProjectFilter selects every catalog container, optionally of one component.
func ProjectFilter(component string) filters.Args {
	f := filters.NewArgs()
	f.Add("label", fmt.Sprintf("%s=true", LabelProject))
	if component != "" {
		f.Add("label", fmt.Sprintf("%s=%s", LabelComponent, component))
	}
	return f
}
