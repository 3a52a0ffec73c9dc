package session

import (
	"log"
	"sync"
	"time"

	"github.com/lowaak/tempo-master/internal/go_func_utils"
)

// TickSource delivers periodic ticks to a single callback.
//
// Start installs onTick and begins ticking, replacing any previous callback.
// When onTick returns false the source stops itself.
// Stop must not return while onTick is executing, and no tick may be
// delivered after Stop returns until the next Start.
// Start and Stop must not be called from inside onTick.
type TickSource interface {
	Start(onTick func() bool)
	Stop()
	Shutdown()
}

// tickCommandKind represents commands sent to the ticker goroutine
type tickCommandKind int

const (
	tickCmdStart tickCommandKind = iota
	tickCmdStop
)

type tickCommand struct {
	kind   tickCommandKind
	onTick func() bool
	reply  chan struct{} // closed once the loop has applied the command
}

// TickerSource is a TickSource backed by a time.Ticker owned by one goroutine
type TickerSource struct {
	interval time.Duration
	logger   *log.Logger

	cmdChan      chan tickCommand
	doneChan     chan struct{} // Closed to signal shutdown
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

var _ TickSource = (*TickerSource)(nil)

// NewTickerSource creates a TickerSource firing every interval
func NewTickerSource(interval time.Duration, logger *log.Logger) *TickerSource {
	if interval <= 0 {
		panic("TickerSource: interval must be positive")
	}
	if logger == nil {
		panic("TickerSource: logger cannot be nil")
	}

	s := &TickerSource{
		interval: interval,
		logger:   logger,
		cmdChan:  make(chan tickCommand),
		doneChan: make(chan struct{}),
	}

	go_func_utils.SafeGo(logger, &s.wg, s.run)

	return s
}

// Start begins ticking into onTick
func (s *TickerSource) Start(onTick func() bool) {
	if onTick == nil {
		panic("TickerSource: onTick cannot be nil")
	}
	s.send(tickCommand{kind: tickCmdStart, onTick: onTick})
}

// Stop halts ticking; it returns after any in-flight tick has finished
func (s *TickerSource) Stop() {
	s.send(tickCommand{kind: tickCmdStop})
}

// Shutdown stops the ticker goroutine.
// Safe to call multiple times - only the first call has effect
func (s *TickerSource) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.doneChan)
		s.wg.Wait()
		s.logger.Printf("TickerSource: Shutdown complete")
	})
}

// send hands cmd to the loop and waits for it to be applied
func (s *TickerSource) send(cmd tickCommand) {
	cmd.reply = make(chan struct{})
	select {
	case s.cmdChan <- cmd:
	case <-s.doneChan:
		return
	}
	select {
	case <-cmd.reply:
	case <-s.doneChan:
	}
}

func (s *TickerSource) run() {
	ticker := time.NewTicker(s.interval)
	ticker.Stop() // Start stopped, will be started by the first Start

	var onTick func() bool

	for {
		select {
		case <-s.doneChan:
			ticker.Stop()
			return

		case cmd := <-s.cmdChan:
			switch cmd.kind {
			case tickCmdStart:
				onTick = cmd.onTick
				ticker.Reset(s.interval)
			case tickCmdStop:
				ticker.Stop()
				onTick = nil
			}
			close(cmd.reply)

		case <-ticker.C:
			if onTick == nil {
				continue
			}
			if !onTick() {
				ticker.Stop()
				onTick = nil
			}
		}
	}
}

// ManualTickSource is a TickSource driven explicitly through Fire.
// It lets tests and hosts with their own timeline advance a session
// deterministically.
type ManualTickSource struct {
	mu     sync.Mutex
	onTick func() bool
	starts int // also serves as the generation of the installed callback
}

var _ TickSource = (*ManualTickSource)(nil)

// NewManualTickSource creates an inactive ManualTickSource
func NewManualTickSource() *ManualTickSource {
	return &ManualTickSource{}
}

// Start installs onTick
func (m *ManualTickSource) Start(onTick func() bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTick = onTick
	m.starts++
}

// Stop removes the installed callback
func (m *ManualTickSource) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTick = nil
}

// Shutdown is equivalent to Stop
func (m *ManualTickSource) Shutdown() {
	m.Stop()
}

// Active reports whether a callback is installed
func (m *ManualTickSource) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onTick != nil
}

// StartCount returns how many times Start has been called
func (m *ManualTickSource) StartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Fire delivers one tick. It returns false when the source was inactive.
func (m *ManualTickSource) Fire() bool {
	m.mu.Lock()
	onTick, generation := m.onTick, m.starts
	m.mu.Unlock()

	if onTick == nil {
		return false
	}
	if !onTick() {
		m.mu.Lock()
		if m.starts == generation {
			m.onTick = nil
		}
		m.mu.Unlock()
	}
	return true
}

// FireN delivers up to n ticks and returns how many were delivered
func (m *ManualTickSource) FireN(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		if !m.Fire() {
			break
		}
		delivered++
	}
	return delivered
}
