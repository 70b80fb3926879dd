package instance

import (
	"github.com/docker/docker/api/types"
	dockerpkg "github.com/dyluth/catalog/internal/docker"
)

type containerSummary = types.Container

// Status is the health of a catalog instance as reported by catalog instances.
type Status string

const (
	StatusRunning  Status = "Running"
	StatusDegraded Status = "Degraded"
	StatusStopped  Status = "Stopped"
)

// DetermineStatus derives an instance's status from its containers.
// Nothing running is Stopped. The instance is Running only when every
// container runs and one of them is the record store; anything in between
// is Degraded, since forms cannot submit without the store.
func DetermineStatus(containers []containerSummary) Status {
	var up, stores int
	for _, c := range containers {
		if c.State == "running" {
			up++
		}
		if c.Labels[dockerpkg.LabelComponent] == dockerpkg.ComponentRedis {
			stores++
		}
	}

	switch {
	case up == 0:
		return StatusStopped
	case stores == 0 || up < len(containers):
		return StatusDegraded
	default:
		return StatusRunning
	}
}

// InstanceInfo is one row of the instance listing.
type InstanceInfo struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	RedisPort int    `json:"redis_port,omitempty"`
}
