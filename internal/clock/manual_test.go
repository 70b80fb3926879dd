package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_AdvanceRunsDueCallbacks(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewManual(start)

	var order []string
	m.AfterFunc(2*time.Second, func() { order = append(order, "two") })
	m.AfterFunc(1*time.Second, func() { order = append(order, "one") })
	m.AfterFunc(5*time.Second, func() { order = append(order, "five") })

	m.Advance(1999 * time.Millisecond)
	assert.Equal(t, []string{"one"}, order)

	m.Advance(time.Millisecond)
	assert.Equal(t, []string{"one", "two"}, order)
	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, start.Add(2*time.Second), m.Now())
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(time.Now())

	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop should report already stopped")

	m.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CallbackCanSchedule(t *testing.T) {
	m := NewManual(time.Now())

	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			m.AfterFunc(time.Second, tick)
		}
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real clock callback did not fire")
	}
}
