package trainer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/tempo-master/internal/go_func_utils"
	"github.com/lowaak/tempo-master/internal/metronome"
	"github.com/lowaak/tempo-master/internal/session"
)

// SessionView is the read-only side of the session controller
type SessionView interface {
	State() session.State
	ListenToState(ch chan<- session.State) func()
}

// BaseUIView wires the model, the session and the animation clock to a UIViewImpl
type BaseUIView struct {
	uiViewImpl   UIViewImpl
	uiModel      *UIModel
	uiController *UIController
	session      SessionView
	animator     *metronome.Animator
	frameRate    int
	context      context.Context
	cancelFunc   context.CancelFunc
	waitGroup    sync.WaitGroup
	logger       *log.Logger
}

type NewBaseUIViewArg struct {
	UIViewImpl   UIViewImpl
	UIModel      *UIModel
	UIController *UIController
	Session      SessionView
	FrameRate    int              // Metronome frames per second
	Clock        func() time.Time // Animation clock, defaults to time.Now
	Logger       *log.Logger
}

// NewBaseUIView initializes impl and starts the listeners and the animation loop
func NewBaseUIView(args NewBaseUIViewArg) *BaseUIView {
	if args.Logger == nil {
		panic("BaseUIView: logger cannot be nil")
	}
	if args.UIViewImpl == nil {
		panic("BaseUIView: UIViewImpl cannot be nil")
	}
	if args.UIModel == nil {
		panic("BaseUIView: UIModel cannot be nil")
	}
	if args.UIController == nil {
		panic("BaseUIView: UIController cannot be nil")
	}
	if args.Session == nil {
		panic("BaseUIView: session cannot be nil")
	}
	if args.FrameRate <= 0 {
		panic("BaseUIView: frame rate must be positive")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseUIView{
		uiViewImpl:   args.UIViewImpl,
		uiModel:      args.UIModel,
		uiController: args.UIController,
		session:      args.Session,
		animator:     metronome.NewAnimator(args.Clock),
		frameRate:    args.FrameRate,
		context:      ctx,
		cancelFunc:   cancel,
		logger:       args.Logger,
	}

	args.UIViewImpl.Initialize(args.UIController)
	args.UIViewImpl.SetupKeyboardHandlers(args.UIController)
	args.UIViewImpl.SetMode(args.UIModel.GetUIState().Mode)
	args.UIViewImpl.SetMenu(args.UIModel.GetMenu())

	go_func_utils.SafeGo(base.logger, &base.waitGroup, func() { base.monitorLogResize() })
	base.updateLogDisplay()

	base.setupEventListeners()

	// The metronome runs on its own clock, faster than the session tick
	go_func_utils.SafeGo(base.logger, &base.waitGroup, func() { base.runAnimationLoop() })

	return base
}

// listen forwards every value from subscribe to handle until the view shuts down
func listen[T any](base *BaseUIView, subscribe func(chan<- T) func(), handle func(T)) {
	ch := make(chan T, 1)
	unregister := subscribe(ch)
	go_func_utils.SafeGo(base.logger, &base.waitGroup, func() {
		defer unregister()
		for {
			select {
			case <-base.context.Done():
				return
			case value, ok := <-ch:
				if !ok {
					return
				}
				handle(value)
			}
		}
	})
}

func (base *BaseUIView) setupEventListeners() {
	// Each log line re-renders the visible tail
	listen(base, base.uiModel.ListenToLog, func(string) {
		base.updateLogDisplay()
	})

	listen(base, base.uiModel.ListenToUIState, func(state UIState) {
		base.uiViewImpl.SetMode(state.Mode)
		base.draw()
	})

	listen(base, base.session.ListenToState, func(state session.State) {
		base.uiViewImpl.UpdateSession(state)
		base.draw()
	})

	listen(base, base.uiModel.ListenToSummary, func(summary session.Summary) {
		base.uiViewImpl.UpdateSummary(summary)
		base.draw()
	})

	// Close is a one-shot signal
	closeChan := make(chan struct{}, 1)
	closeUnregister := base.uiModel.ListenToCloseApplication(closeChan)
	go_func_utils.SafeGo(base.logger, &base.waitGroup, func() {
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			base.uiViewImpl.Stop()
		}
	})
}

// runAnimationLoop draws metronome frames while the ride screen is shown.
// It only reads session state.
func (base *BaseUIView) runAnimationLoop() {
	ticker := time.NewTicker(time.Second / time.Duration(base.frameRate))
	defer ticker.Stop()

	var lastSessionID string
	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			uiState := base.uiModel.GetUIState()
			if uiState.Mode != UIModeRide {
				continue
			}

			state := base.session.State()
			if state.SessionID != lastSessionID {
				lastSessionID = state.SessionID
				base.animator.Reset()
			}

			pose := base.animator.Frame(state.Cadence, state.Paused || !state.Running)
			base.uiViewImpl.UpdateMetronome(pose, uiState.Style)
			base.draw()
		}
	}
}

func (base *BaseUIView) draw() {
	if err := base.uiViewImpl.Draw(); err != nil {
		base.logger.Printf("BaseUIView: Draw failed: %v", err)
	}
}

func (base *BaseUIView) updateLogDisplay() {
	rows := base.uiViewImpl.GetLogViewHeight()
	if rows <= 0 {
		return
	}

	base.uiViewImpl.ClearLogView()
	for _, line := range base.uiModel.GetLogTail(rows) {
		if err := base.uiViewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseUIView: Log pane write failed: %v", err)
		}
	}
}

func (base *BaseUIView) monitorLogResize() {
	var lastRows int
	poll := time.NewTicker(100 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-poll.C:
			rows := base.uiViewImpl.GetLogViewHeight()
			if rows > 0 && rows != lastRows {
				lastRows = rows
				base.updateLogDisplay()
				base.draw()
			}
		}
	}
}

// Shutdown cancels the listeners and the animation loop and waits for them
func (base *BaseUIView) Shutdown() {
	base.logger.Println("BaseUIView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseUIView: Shutdown complete")
}

// Run blocks until the user quits
func (base *BaseUIView) Run() error {
	return base.uiViewImpl.Run()
}
