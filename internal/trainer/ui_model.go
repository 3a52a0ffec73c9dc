package trainer

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/tempo-master/internal/events"
	"github.com/lowaak/tempo-master/internal/go_func_utils"
	"github.com/lowaak/tempo-master/internal/session"
)

// UIState is the page and metronome style the view renders
type UIState struct {
	Mode  UIMode
	Style DisplayStyle
}

// SummarySource publishes the summary of every session that leaves the running state
type SummarySource interface {
	ListenToSummary(ch chan<- session.Summary) func()
}

type UIModel struct {
	logEvent              *events.StateEvent[string]
	closeApplicationEvent *events.StateEvent[struct{}]
	uiStateEvent          *events.StateEvent[UIState]
	uiState               UIState
	menu                  []MenuEntry
	summaryEvent          *events.StateEvent[session.Summary]
	lastSummary           *session.Summary
	logLines              []string
	logMu                 sync.RWMutex
	mu                    sync.RWMutex
	ctx                   context.Context
	cancel                context.CancelFunc
	wg                    sync.WaitGroup
	logger                *log.Logger
}

const maxLogLines = 1000

// NewUIModelArg holds the arguments for creating a new UIModel
type NewUIModelArg struct {
	Summaries SummarySource
	Menu      []MenuEntry
	Style     DisplayStyle
	Logger    *log.Logger
	UILogChan <-chan string
}

func NewUIModel(args NewUIModelArg) *UIModel {
	if args.Logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if args.UILogChan == nil {
		panic("UIModel: uiLogChan cannot be nil")
	}
	if args.Summaries == nil {
		panic("UIModel: summary source cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	model := &UIModel{
		logEvent:              events.NewStateEvent[string](false),
		closeApplicationEvent: events.NewStateEvent[struct{}](true),
		uiStateEvent:          events.NewStateEvent[UIState](true),
		uiState:               UIState{Mode: UIModeMenu, Style: args.Style},
		menu:                  args.Menu,
		summaryEvent:          events.NewStateEvent[session.Summary](true),
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                args.Logger,
	}

	// Keep the most recent session summary for the ride screen.
	// Registered before returning so no summary is missed.
	summaryChan := make(chan session.Summary, 1)
	summaryUnregister := args.Summaries.ListenToSummary(summaryChan)
	go_func_utils.SafeGo(model.logger, &model.wg, func() {
		defer summaryUnregister()
		model.listenToSummaries(ctx, summaryChan)
	})

	// Collect lines written by the logger into the tail
	go_func_utils.SafeGo(model.logger, &model.wg, func() { model.readFromLogChannel(ctx, args.UILogChan) })

	return model
}

// Shutdown stops the summary and log readers
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

// ListenToLog delivers every log line appended to the tail
func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// ListenToCloseApplication fires once the user asks to quit
func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// ListenToUIState replays the current UIState and then every change
func (m *UIModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.Listen(ch)
}

func (m *UIModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode switches pages; setting the current mode is a no-op
func (m *UIModel) SetMode(mode UIMode) {
	m.mu.Lock()
	if m.uiState.Mode == mode {
		m.mu.Unlock()
		return
	}
	m.uiState.Mode = mode
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

// SetStyle updates the metronome display style and notifies listeners
func (m *UIModel) SetStyle(style DisplayStyle) {
	m.mu.Lock()
	if m.uiState.Style == style {
		m.mu.Unlock()
		return
	}
	m.uiState.Style = style
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

// GetMenu returns a copy of the workout menu
func (m *UIModel) GetMenu() []MenuEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]MenuEntry, len(m.menu))
	copy(result, m.menu)
	return result
}

// ListenToSummary replays the last summary, if any, and then each new one
func (m *UIModel) ListenToSummary(ch chan<- session.Summary) func() {
	return m.summaryEvent.Listen(ch)
}

// GetLastSummary returns the most recent session summary, or nil before the first one
func (m *UIModel) GetLastSummary() *session.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastSummary == nil {
		return nil
	}
	summary := *m.lastSummary
	return &summary
}

// listenToSummaries stores every received summary and re-emits it to the view
func (m *UIModel) listenToSummaries(ctx context.Context, summaryChan <-chan session.Summary) {
	for {
		select {
		case <-ctx.Done():
			return
		case summary, ok := <-summaryChan:
			if !ok {
				return
			}

			m.mu.Lock()
			m.lastSummary = &summary
			m.mu.Unlock()

			if summary.Completed {
				m.logger.Printf("UIModel: Workout complete in %s", formatDurationMMSS(summary.Elapsed))
			}
			m.summaryEvent.Notify(summary)
		}
	}
}

// readFromLogChannel appends incoming lines to the bounded tail
func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				// Channel closed
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				// Keep the most recent maxLogLines
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns up to n of the newest log lines, oldest first
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}

	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}

	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}
