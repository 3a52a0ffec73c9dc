package session

import (
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 5 * time.Millisecond

func newTestTickerSource(t *testing.T) *TickerSource {
	t.Helper()
	s := NewTickerSource(testInterval, log.New(io.Discard, "", 0))
	t.Cleanup(s.Shutdown)
	return s
}

func TestNewTickerSource_Panics(t *testing.T) {
	assert.Panics(t, func() { NewTickerSource(0, log.New(io.Discard, "", 0)) })
	assert.Panics(t, func() { NewTickerSource(time.Second, nil) })
}

func TestTickerSource_StartDeliversTicks(t *testing.T) {
	s := newTestTickerSource(t)

	var ticks atomic.Int32
	s.Start(func() bool {
		ticks.Add(1)
		return true
	})

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, testInterval)
}

func TestTickerSource_StopHaltsTicks(t *testing.T) {
	s := newTestTickerSource(t)

	var ticks atomic.Int32
	s.Start(func() bool {
		ticks.Add(1)
		return true
	})
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, testInterval)

	s.Stop()
	stopped := ticks.Load()

	time.Sleep(10 * testInterval)
	assert.Equal(t, stopped, ticks.Load())
}

func TestTickerSource_CallbackFalseStops(t *testing.T) {
	s := newTestTickerSource(t)

	var ticks atomic.Int32
	s.Start(func() bool {
		return ticks.Add(1) < 2
	})

	require.Eventually(t, func() bool { return ticks.Load() == 2 }, time.Second, testInterval)
	time.Sleep(10 * testInterval)
	assert.Equal(t, int32(2), ticks.Load())

	// A fresh Start resumes ticking
	s.Start(func() bool {
		ticks.Add(1)
		return true
	})
	assert.Eventually(t, func() bool { return ticks.Load() > 2 }, time.Second, testInterval)
}

func TestTickerSource_StartReplacesCallback(t *testing.T) {
	s := newTestTickerSource(t)

	var first, second atomic.Int32
	s.Start(func() bool {
		first.Add(1)
		return true
	})
	require.Eventually(t, func() bool { return first.Load() >= 1 }, time.Second, testInterval)

	s.Start(func() bool {
		second.Add(1)
		return true
	})
	replaced := first.Load()

	require.Eventually(t, func() bool { return second.Load() >= 2 }, time.Second, testInterval)
	assert.Equal(t, replaced, first.Load())
}

func TestTickerSource_ShutdownIsIdempotent(t *testing.T) {
	s := NewTickerSource(testInterval, log.New(io.Discard, "", 0))

	s.Start(func() bool { return true })
	s.Shutdown()
	s.Shutdown()

	// Commands after shutdown return immediately
	s.Start(func() bool { return true })
	s.Stop()
}

func TestTickerSource_DrivesController(t *testing.T) {
	source := newTestTickerSource(t)
	c := NewController(NewControllerArg{
		TickSource: source,
		Logger:     log.New(io.Discard, "", 0),
	})

	// The controller always advances one TickInterval per tick, whatever the source's period
	c.StartTimed(90, 3*time.Second)
	assert.Eventually(t, func() bool { return !c.State().Running }, time.Second, testInterval)
}

func TestManualTickSource(t *testing.T) {
	m := NewManualTickSource()
	assert.False(t, m.Active())
	assert.False(t, m.Fire())

	calls := 0
	m.Start(func() bool {
		calls++
		return calls < 3
	})
	assert.True(t, m.Active())
	assert.Equal(t, 1, m.StartCount())

	assert.Equal(t, 3, m.FireN(10))
	assert.False(t, m.Active())

	m.Start(func() bool { return true })
	m.Stop()
	assert.False(t, m.Fire())
	assert.Equal(t, 2, m.StartCount())
}

func TestManualTickSource_RestartFromCallbackSurvives(t *testing.T) {
	m := NewManualTickSource()

	m.Start(func() bool {
		m.Start(func() bool { return true })
		return false
	})

	assert.True(t, m.Fire())
	assert.True(t, m.Active())
}
