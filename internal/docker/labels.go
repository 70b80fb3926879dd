package docker

import (
	"fmt"

	"github.com/google/uuid"
)

// Label keys used for catalog resources
const (
	LabelProject       = "catalog.project"
	LabelInstanceName  = "catalog.instance.name"
	LabelInstanceRunID = "catalog.instance.run_id"
	LabelComponent     = "catalog.component"
	LabelRedisPort     = "catalog.redis.port"
)

// ComponentRedis is the component label of an instance's record store.
const ComponentRedis = "redis"

// BuildLabels creates the standard label set for catalog resources.
// component is optional.
func BuildLabels(instanceName, runID, component string) map[string]string {
	labels := map[string]string{
		LabelProject:       "true",
		LabelInstanceName:  instanceName,
		LabelInstanceRunID: runID,
	}

	if component != "" {
		labels[LabelComponent] = component
	}

	return labels
}

// GenerateRunID creates a new UUID for an instance run.
// Each invocation of `catalog up` gets a unique run ID.
func GenerateRunID() string {
	return uuid.New().String()
}

// RedisContainerName returns the Redis container name for an instance
func RedisContainerName(instanceName string) string {
	return fmt.Sprintf("catalog-redis-%s", instanceName)
}
