package trainer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/tempo-master/internal/session"
)

func TestNewUIModel_Panics(t *testing.T) {
	rig := newTestRig(t)
	logChan := make(chan string)

	assert.Panics(t, func() { NewUIModel(NewUIModelArg{Summaries: rig.session, UILogChan: logChan}) })
	assert.Panics(t, func() { NewUIModel(NewUIModelArg{Summaries: rig.session, Logger: rig.logger}) })
	assert.Panics(t, func() { NewUIModel(NewUIModelArg{Logger: rig.logger, UILogChan: logChan}) })
}

func TestUIModel_LogTail(t *testing.T) {
	rig := newTestRig(t)

	for i := 0; i < 5; i++ {
		rig.logChan <- fmt.Sprintf("line %d\n", i)
	}

	require.Eventually(t, func() bool { return len(rig.model.GetLogTail(100)) == 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"line 3\n", "line 4\n"}, rig.model.GetLogTail(2))
	assert.Empty(t, rig.model.GetLogTail(0))
}

func TestUIModel_LogTailIsBounded(t *testing.T) {
	rig := newTestRig(t)

	go func() {
		for i := 0; i < maxLogLines+50; i++ {
			rig.logChan <- fmt.Sprintf("line %d\n", i)
		}
	}()

	require.Eventually(t, func() bool {
		tail := rig.model.GetLogTail(1)
		return len(tail) == 1 && tail[0] == fmt.Sprintf("line %d\n", maxLogLines+49)
	}, 2*time.Second, 5*time.Millisecond)

	all := rig.model.GetLogTail(maxLogLines * 2)
	assert.Len(t, all, maxLogLines)
	assert.Equal(t, "line 50\n", all[0])
}

func TestUIModel_UIState(t *testing.T) {
	rig := newTestRig(t)
	assert.Equal(t, UIState{Mode: UIModeMenu, Style: DisplayStyleBall}, rig.model.GetUIState())

	ch := make(chan UIState, 4)
	unregister := rig.model.ListenToUIState(ch)
	defer unregister()

	rig.model.SetMode(UIModeRide)
	rig.model.SetMode(UIModeRide) // no change, no notification
	rig.model.SetStyle(DisplayStylePedal)

	require.Len(t, ch, 2)
	assert.Equal(t, UIState{Mode: UIModeRide, Style: DisplayStyleBall}, <-ch)
	assert.Equal(t, UIState{Mode: UIModeRide, Style: DisplayStylePedal}, <-ch)
}

func TestUIModel_MenuIsCopied(t *testing.T) {
	rig := newTestRig(t)

	menu := rig.model.GetMenu()
	require.NotEmpty(t, menu)
	menu[0].Title = "changed"
	assert.Equal(t, "Just Ride", rig.model.GetMenu()[0].Title)
}

func TestUIModel_Summaries(t *testing.T) {
	rig := newTestRig(t)
	assert.Nil(t, rig.model.GetLastSummary())

	ch := make(chan session.Summary, 1)
	unregister := rig.model.ListenToSummary(ch)
	defer unregister()

	rig.session.StartTimed(90, 3*time.Second)
	rig.source.FireN(3)

	select {
	case summary := <-ch:
		assert.True(t, summary.Completed)
		assert.Equal(t, 3*time.Second, summary.Elapsed)
	case <-time.After(time.Second):
		t.Fatal("no summary received")
	}

	last := rig.model.GetLastSummary()
	require.NotNil(t, last)
	assert.Equal(t, session.ModeTimed, last.Mode)
}
