package shutdown

import (
	"testing"
	"time"

	"ice-extent/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestManager_ShutdownReverseOrder(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})

	var order []string
	m.Register("exporter", Func(func() { order = append(order, "exporter") }))
	m.Register("controller", Func(func() { order = append(order, "controller") }))
	m.Register("view", Func(func() { order = append(order, "view") }))

	m.Shutdown()

	assert.Equal(t, []string{"view", "controller", "exporter"}, order)
	assert.Error(t, m.Context().Err())
	select {
	case <-m.Done():
	default:
		t.Fatal("Done channel not closed")
	}
}

func TestManager_ShutdownIsIdempotent(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})

	calls := 0
	m.Register("counter", Func(func() { calls++ }))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, calls)
}

func TestManager_StuckComponentDoesNotBlock(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})
	m.stepTimeout = 20 * time.Millisecond

	release := make(chan struct{})
	defer close(release)

	reached := false
	m.Register("after", Func(func() { reached = true }))
	m.Register("stuck", Func(func() { <-release }))

	finished := make(chan struct{})
	go func() {
		m.Shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("shutdown blocked on stuck component")
	}
	assert.True(t, reached)
}
