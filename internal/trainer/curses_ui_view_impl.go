package trainer

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/tempo-master/internal/metronome"
	"github.com/lowaak/tempo-master/internal/session"
)

// tview.Pages names
const (
	pageMenu = "menu"
	pageRide = "ride"
)

// CursesUIViewImpl renders the workout menu and the ride screen with tview
type CursesUIViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	model       *UIModel
	currentMode UIMode

	// One page per UIMode
	pages *tview.Pages

	// Visible on every page
	logView  *tview.TextView
	mainFlex *tview.Flex // pages left, log pane right

	// Menu mode components
	menuFlex         *tview.Flex
	menuTabWidgets   []*tview.Box
	menuList         *tview.List
	menuDetailsPanel *tview.TextView
	menu             []MenuEntry

	// Ride mode components
	rideFlex       *tview.Flex
	rideTabWidgets []*tview.Box
	metronomeView  *tview.TextView
	sessionPanel   *tview.TextView
	summaryPanel   *tview.TextView
}

func NewCursesUIView(logger *log.Logger, app *tview.Application, model *UIModel) *CursesUIViewImpl {
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		model:       model,
		currentMode: UIModeMenu,
	}
}

// Initialize builds both pages and the log pane
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// No SetChangedFunc redraw here: a Draw after app.Stop blocks. BaseUIView draws after each update.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initMenuMode(controller)
	ui.initRideMode()

	ui.pages.AddPage(pageMenu, ui.menuFlex, true, true)
	ui.pages.AddPage(pageRide, ui.rideFlex, true, false)

	// Pages on the left, logs on the right
	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.setFocusForCurrentMode()
}

// initMenuMode sets up the workout menu
func (ui *CursesUIViewImpl) initMenuMode(controller *UIController) {
	instructionsText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructionsText.SetText("[yellow]Enter[white] Start  |  [yellow]Tab[white] Cycle Panels  |  [yellow]Esc[white] Quit\n[yellow]1[white] Workouts  |  [yellow]2[white] Ride")

	ui.menuList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			if index >= len(ui.menu) {
				ui.logger.Printf("UI: Custom workouts are loaded from the workouts file at startup")
				return
			}
			ui.logger.Printf("UI: Menu selected: index=%d, name=%s", index, mainText)
			controller.OnMenuSelected(index)
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updateMenuDetailsDisplay(index)
		})
	ui.menuList.SetBorder(true).SetTitle(" Tempo Master ")

	ui.menuDetailsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.menuDetailsPanel.SetBorder(true).SetTitle(" Details ")
	ui.updateMenuDetailsDisplay(-1)

	ui.menuTabWidgets = append(ui.menuTabWidgets, ui.menuList.Box, ui.menuDetailsPanel.Box)

	columns := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.menuList, 0, 1, true).
		AddItem(ui.menuDetailsPanel, 0, 1, false)

	ui.menuFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructionsText, 2, 0, false).
		AddItem(columns, 0, 1, true)
}

// initRideMode sets up the metronome and session panels
func (ui *CursesUIViewImpl) initRideMode() {
	ui.metronomeView = tview.NewTextView().
		SetDynamicColors(false).
		SetTextAlign(tview.AlignLeft).
		SetWrap(false)
	ui.metronomeView.SetBorder(true).SetTitle(" Metronome ")

	ui.sessionPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.sessionPanel.SetBorder(true).SetTitle(" Session ")
	ui.updateSessionDisplay(session.State{})

	ui.summaryPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.summaryPanel.SetBorder(true).SetTitle(" Last Ride ")
	ui.summaryPanel.SetText("\n  [gray]No finished rides yet[white]\n")

	ui.rideTabWidgets = append(ui.rideTabWidgets, ui.metronomeView.Box, ui.sessionPanel.Box)

	rightColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.sessionPanel, 0, 3, false).
		AddItem(ui.summaryPanel, 0, 1, false)

	ui.rideFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.metronomeView, 0, 1, true).
		AddItem(rightColumn, 0, 1, false)
}

// SetMenu populates the workout menu
func (ui *CursesUIViewImpl) SetMenu(entries []MenuEntry) {
	ui.menu = entries
	ui.menuList.Clear()

	for _, entry := range entries {
		ui.menuList.AddItem(entry.Title, entry.Detail, 0, nil)
	}
	ui.menuList.AddItem("Custom Workout", "Add workouts to your workouts file", 0, nil)

	if len(entries) > 0 {
		ui.updateMenuDetailsDisplay(0)
	}
}

// updateMenuDetailsDisplay formats and displays the selected menu entry
func (ui *CursesUIViewImpl) updateMenuDetailsDisplay(index int) {
	if ui.menuDetailsPanel == nil {
		return
	}

	var text string

	if index < 0 || index >= len(ui.menu) {
		text = "\n\n  [yellow]Custom Workouts[white]\n\n"
		text += "  List your own interval workouts in the workouts file\n"
		text += "  (see --workouts-file). They appear below the presets.\n"
		ui.menuDetailsPanel.SetText(text)
		return
	}

	entry := ui.menu[index]
	text = "\n"
	text += fmt.Sprintf("  [yellow]%s[white]\n\n", entry.Title)

	switch entry.Kind {
	case MenuEntryFreeRide:
		text += "  Ride for as long as you like.\n"
		text += "  [gray]Adjust cadence with[white] [yellow]+[white]/[yellow]-[white]\n"
	case MenuEntryTimedRide:
		text += "  Hold one cadence for a set time.\n"
		text += fmt.Sprintf("  [gray]%s[white]\n", entry.Detail)
	default:
		plan := entry.Plan
		if plan.Difficulty != "" {
			text += fmt.Sprintf("  [gray]Difficulty:[white] %s\n", plan.Difficulty)
		}
		if plan.Description != "" {
			text += fmt.Sprintf("  %s\n", plan.Description)
		}
		text += "\n  [gray]Structure:[white]\n"
		text += fmt.Sprintf("    Work  %s at %d rpm\n", formatDuration(plan.WorkDuration), plan.WorkCadence)
		text += fmt.Sprintf("    Rest  %s at %d rpm\n", formatDuration(plan.RestDuration), plan.RestCadence)
		text += fmt.Sprintf("    Rounds %d\n\n", plan.Rounds)
		text += fmt.Sprintf("  [gray]%s[white]\n", plan.TotalLabel())
	}
	text += "\n  [green]Press Enter to start[white]\n"

	ui.menuDetailsPanel.SetText(text)
}

func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}

	ui.currentMode = mode

	switch mode {
	case UIModeMenu:
		ui.pages.SwitchToPage(pageMenu)
	case UIModeRide:
		ui.pages.SwitchToPage(pageRide)
	}

	ui.setFocusForCurrentMode()
}

func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

// setFocusForCurrentMode focuses the first tab stop of the visible page
func (ui *CursesUIViewImpl) setFocusForCurrentMode() {
	widgets := ui.getTabWidgetsForCurrentMode()
	if len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// getTabWidgetsForCurrentMode lists the tab stops of the visible page in order
func (ui *CursesUIViewImpl) getTabWidgetsForCurrentMode() []*tview.Box {
	switch ui.currentMode {
	case UIModeMenu:
		return ui.menuTabWidgets
	case UIModeRide:
		return ui.rideTabWidgets
	default:
		return nil
	}
}

// SetupKeyboardHandlers installs the global key bindings
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Number keys for mode switching
		if event.Key() == tcell.KeyRune {
			if mode, ok := GetUIModeByKey(event.Rune()); ok {
				// The model change comes back through SetMode
				controller.OnModeChange(mode)
				return nil
			}
		}

		// Tab cycles focus within the page
		if event.Key() == tcell.KeyTab {
			widgets := ui.getTabWidgetsForCurrentMode()
			widgetCount := len(widgets)
			if widgetCount > 0 {
				for i := 0; i < widgetCount+1; i++ {
					idx := i % widgetCount
					if widgets[idx].HasFocus() {
						nextIdx := (idx + 1) % widgetCount
						ui.app.SetFocus(widgets[nextIdx])
						break
					}
				}
			}
			return nil
		}

		// Escape to quit
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		if ui.currentMode != UIModeRide {
			return event
		}

		switch event.Key() {
		case tcell.KeyUp:
			controller.IncreaseCadence()
			return nil
		case tcell.KeyDown:
			controller.DecreaseCadence()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case '+', '=':
				controller.IncreaseCadence()
				return nil
			case '-':
				controller.DecreaseCadence()
				return nil
			case ' ':
				controller.TogglePause()
				return nil
			case 'x':
				controller.EndSession()
				return nil
			case 's':
				controller.ToggleDisplayStyle()
				return nil
			}
		}

		return event
	})
}

func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine appends line with tview color tags escaped
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

func (ui *CursesUIViewImpl) Run() error {
	// Focus set before SetRoot is lost
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentMode()
	return ui.app.Run()
}

func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}

// UpdateSession updates the session status panel
func (ui *CursesUIViewImpl) UpdateSession(state session.State) {
	ui.updateSessionDisplay(state)
}

// updateSessionDisplay formats and displays the session state
func (ui *CursesUIViewImpl) updateSessionDisplay(state session.State) {
	if ui.sessionPanel == nil {
		return
	}

	if !state.Running {
		text := "\n  [gray]No ride in progress[white]\n\n"
		text += "  Pick a workout in the menu (press 1).\n"
		ui.sessionPanel.SetText(text)
		return
	}

	text := "\n"
	if state.Paused {
		text += fmt.Sprintf("  [yellow]%s[white] [gray](PAUSED)[white]\n\n", state.Mode)
	} else {
		text += fmt.Sprintf("  [yellow]%s[white]\n\n", state.Mode)
	}

	text += fmt.Sprintf("  [cyan]Cadence:[white]   [yellow]%d[white] rpm\n\n", state.Cadence)
	text += fmt.Sprintf("  [gray]Elapsed:[white]   %s\n", formatDurationMMSS(state.Elapsed))

	switch state.Mode {
	case session.ModeTimed:
		text += fmt.Sprintf("  [gray]Remaining:[white] %s\n", formatDurationMMSS(state.Remaining))
	case session.ModeInterval:
		phaseColor := "green"
		if state.IsWorkPhase {
			phaseColor = "red"
		}
		text += fmt.Sprintf("\n  [%s]%s[white]  %s\n", phaseColor, state.PhaseLabel(), state.RoundLabel())
		text += fmt.Sprintf("  [gray]Phase left:[white] %s\n", formatDurationMMSS(state.Remaining))
		if state.IsWorkPhase {
			text += fmt.Sprintf("  [gray]Next:[white] rest at %d rpm\n", state.RestCadence)
		} else if state.CurrentRound < state.TotalRounds {
			text += fmt.Sprintf("  [gray]Next:[white] work at %d rpm\n", state.WorkCadence)
		} else {
			text += "  [gray]Next:[white] [green]Finish![white]\n"
		}
	}

	text += "\n  [gray]─────────────────────────[white]\n"
	if state.Paused {
		text += "  [yellow]Space[white] Resume  |  [yellow]X[white] End\n"
	} else {
		text += "  [yellow]Space[white] Pause  |  [yellow]X[white] End\n"
	}
	if state.Mode != session.ModeInterval {
		text += "  [yellow]+[white]/[yellow]-[white] Cadence  |  [yellow]S[white] Style\n"
	} else {
		text += "  [yellow]S[white] Style\n"
	}

	ui.sessionPanel.SetText(text)
}

// UpdateSummary shows the result of the last finished session
func (ui *CursesUIViewImpl) UpdateSummary(summary session.Summary) {
	text := "\n"
	if summary.Completed {
		text += fmt.Sprintf("  [green]%s complete[white]\n", summary.Mode)
	} else {
		text += fmt.Sprintf("  [yellow]%s ended early[white]\n", summary.Mode)
	}
	text += fmt.Sprintf("  [gray]Time:[white] %s\n", formatDurationMMSS(summary.Elapsed))
	if summary.TotalRounds > 0 {
		text += fmt.Sprintf("  [gray]Rounds:[white] %d/%d\n", summary.RoundsCompleted, summary.TotalRounds)
	}
	ui.summaryPanel.SetText(text)
}

// UpdateMetronome draws one animation frame
func (ui *CursesUIViewImpl) UpdateMetronome(pose metronome.Pose, style DisplayStyle) {
	_, _, width, height := ui.metronomeView.GetInnerRect()
	ui.metronomeView.SetText(renderMetronome(pose, style, width, height))
}

// renderMetronome draws pose into a width x height block of text
func renderMetronome(pose metronome.Pose, style DisplayStyle, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}
	set := func(x, y int, r rune) {
		if y >= 0 && y < height && x >= 0 && x < width {
			grid[y][x] = r
		}
	}

	switch style {
	case DisplayStylePedal:
		// Rotating rod around the center, x doubled for the cell aspect ratio
		cx, cy := width/2, height/2
		radius := min(height/2-1, width/4)
		angle := pose.CrankAngle * math.Pi / 180
		for k := 1; k <= radius; k++ {
			x := cx + int(math.Round(math.Sin(angle)*float64(k)*2))
			y := cy - int(math.Round(math.Cos(angle)*float64(k)))
			r := '*'
			if k == radius {
				r = '■'
			}
			set(x, y, r)
		}
		set(cx, cy, 'o')

	default:
		floor := height - 1
		for x := 0; x < width; x++ {
			set(x, floor, '─')
		}
		top := floor - 1
		row := top - int(math.Round(pose.Height*float64(top)))
		ball := "●"
		if pose.Squish > 0.5 {
			ball = "▬▬▬"
		} else if pose.Squish > 0.15 {
			ball = "▬▬"
		}
		start := width/2 - len([]rune(ball))/2
		for i, r := range []rune(ball) {
			set(start+i, row, r)
		}
	}

	lines := make([]string, height)
	for y, line := range grid {
		lines[y] = string(line)
	}
	return strings.Join(lines, "\n")
}

// formatDuration prints whole minutes as "45 min" or "1h 5m" and anything else as MM:SS
func formatDuration(d time.Duration) string {
	if d%time.Minute != 0 {
		return formatDurationMMSS(d)
	}
	minutes := int(d.Minutes())
	if minutes >= 60 {
		hours := minutes / 60
		mins := minutes % 60
		if mins > 0 {
			return fmt.Sprintf("%dh %dm", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%d min", minutes)
}

// formatDurationMMSS formats a duration as MM:SS, or H:MM:SS past an hour
func formatDurationMMSS(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
