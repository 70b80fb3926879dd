package instance

import (
	"context"
	"fmt"
	"regexp"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	dockerpkg "github.com/dyluth/catalog/internal/docker"
)

// MaxNameLength keeps the store container name a valid DNS label.
const MaxNameLength = 63

// NamePattern is the alphabet of instance names. The name is embedded in the
// store container name and in every Redis key, so ':' and '_' are excluded.
var NamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ValidateName checks that name can be used as an instance name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("instance name is required")
	case len(name) > MaxNameLength:
		return fmt.Errorf("instance name '%s' is %d characters long, the limit is %d", name, len(name), MaxNameLength)
	case !NamePattern.MatchString(name):
		return fmt.Errorf("instance name '%s' may only contain lowercase letters, digits and inner hyphens", name)
	}
	return nil
}

// FindInstanceContainers returns every container, running or not, that
// belongs to the named instance. An empty result means the name is free.
func FindInstanceContainers(ctx context.Context, cli *client.Client, name string) ([]containerSummary, error) {
	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: dockerpkg.InstanceFilter(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up containers of instance '%s': %w", name, err)
	}
	return containers, nil
}
