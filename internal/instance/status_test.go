package instance

import (
	"testing"

	"github.com/docker/docker/api/types"
	dockerpkg "github.com/dyluth/catalog/internal/docker"
	"github.com/stretchr/testify/assert"
)

func TestDetermineStatus(t *testing.T) {
	store := func(state string) types.Container {
		return types.Container{State: state, Labels: dockerpkg.BuildLabels("shop", "run", dockerpkg.ComponentRedis)}
	}
	other := func(state string) types.Container {
		return types.Container{State: state, Labels: dockerpkg.BuildLabels("shop", "run", "")}
	}

	tests := []struct {
		name       string
		containers []types.Container
		want       Status
	}{
		{"store running", []types.Container{store("running")}, StatusRunning},
		{"store and sidecar running", []types.Container{store("running"), other("running")}, StatusRunning},
		{"store exited", []types.Container{store("exited")}, StatusStopped},
		{"store created", []types.Container{store("created")}, StatusStopped},
		{"store down, sidecar up", []types.Container{store("exited"), other("running")}, StatusDegraded},
		{"sidecar down", []types.Container{store("running"), other("exited")}, StatusDegraded},
		{"no store", []types.Container{other("running")}, StatusDegraded},
		{"empty", nil, StatusStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStatus(tt.containers))
		})
	}
}

func TestGroupInstances(t *testing.T) {
	redis := func(name, port, state string) types.Container {
		labels := dockerpkg.BuildLabels(name, "run", dockerpkg.ComponentRedis)
		if port != "" {
			labels[dockerpkg.LabelRedisPort] = port
		}
		return types.Container{State: state, Labels: labels}
	}

	infos := groupInstances([]types.Container{
		redis("shop", "6380", "running"),
		redis("archive", "6379", "exited"),
		redis("broken", "", "running"),
		{State: "running", Labels: map[string]string{dockerpkg.LabelProject: "true"}},
	})

	assert.Equal(t, []InstanceInfo{
		{Name: "archive", Status: StatusStopped, RedisPort: 6379},
		{Name: "broken", Status: StatusRunning},
		{Name: "shop", Status: StatusRunning, RedisPort: 6380},
	}, infos)
}

func TestRedisPortFromLabels(t *testing.T) {
	port, err := redisPortFromLabels("shop", map[string]string{dockerpkg.LabelRedisPort: "6390"})
	assert.NoError(t, err)
	assert.Equal(t, 6390, port)

	_, err = redisPortFromLabels("shop", map[string]string{})
	assert.ErrorContains(t, err, "Redis port label missing")

	_, err = redisPortFromLabels("shop", map[string]string{dockerpkg.LabelRedisPort: "abc"})
	assert.ErrorContains(t, err, "invalid Redis port")
}
