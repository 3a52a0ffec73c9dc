package trainer

import (
	"github.com/lowaak/tempo-master/internal/metronome"
	"github.com/lowaak/tempo-master/internal/session"
)

// UIViewImpl is implemented by each terminal toolkit the trainer can render with
type UIViewImpl interface {
	// Initialize builds the widgets; menu selections are routed to controller
	Initialize(controller *UIController)

	// SetupKeyboardHandlers binds ride and menu keys to controller actions
	SetupKeyboardHandlers(controller *UIController)

	// Run blocks until the application quits
	Run() error
	Stop()

	// Draw schedules a repaint
	Draw() error

	// SetMode shows the page for mode
	SetMode(mode UIMode)
	GetCurrentMode() UIMode

	// Log pane, visible on every page
	GetLogViewHeight() int
	ClearLogView()
	WriteLogLine(line string) error

	// SetMenu populates the workout menu
	SetMenu(entries []MenuEntry)

	// UpdateSession refreshes the cadence, timer and phase panel
	UpdateSession(state session.State)

	// UpdateSummary shows the result of the last finished session
	UpdateSummary(summary session.Summary)

	// UpdateMetronome draws one animation frame
	UpdateMetronome(pose metronome.Pose, style DisplayStyle)
}
