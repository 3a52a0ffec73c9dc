package trainer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/tempo-master/internal/metronome"
	"github.com/lowaak/tempo-master/internal/workouts"
)

func TestGetUIModeByKey(t *testing.T) {
	mode, ok := GetUIModeByKey('2')
	assert.True(t, ok)
	assert.Equal(t, UIModeRide, mode)

	_, ok = GetUIModeByKey('9')
	assert.False(t, ok)

	info, ok := GetUIModeInfo(UIModeMenu)
	assert.True(t, ok)
	assert.Equal(t, "Workouts", info.DisplayName)
}

func TestParseDisplayStyle(t *testing.T) {
	style, err := ParseDisplayStyle(" Pedal ")
	require.NoError(t, err)
	assert.Equal(t, DisplayStylePedal, style)

	style, err = ParseDisplayStyle("ball")
	require.NoError(t, err)
	assert.Equal(t, DisplayStyleBall, style)

	_, err = ParseDisplayStyle("disco")
	assert.Error(t, err)
}

func TestBuildMenu(t *testing.T) {
	menu := BuildMenu(testDefaults, workouts.NewCatalog(nil))
	require.Len(t, menu, 6)

	assert.Equal(t, MenuEntryFreeRide, menu[0].Kind)
	assert.Equal(t, "Free ride at 90 rpm", menu[0].Detail)
	assert.Equal(t, MenuEntryTimedRide, menu[1].Kind)
	assert.Equal(t, "30 min at 85 rpm", menu[1].Detail)
	assert.Equal(t, MenuEntryIntervals, menu[2].Kind)
	assert.Equal(t, "5x 5 min @ 100 / 2 min @ 70 rpm, Total: 35 minutes", menu[2].Detail)

	assert.Equal(t, MenuEntryWorkout, menu[3].Kind)
	assert.Equal(t, "Tempo Blocks", menu[3].Title)
	assert.Equal(t, 88, menu[3].Plan.WorkCadence)

	assert.Len(t, BuildMenu(testDefaults, nil), 3)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 min", formatDuration(45*time.Minute))
	assert.Equal(t, "1h", formatDuration(time.Hour))
	assert.Equal(t, "1h 5m", formatDuration(65*time.Minute))
	assert.Equal(t, "01:30", formatDuration(90*time.Second))
	assert.Equal(t, "1:02:03", formatDurationMMSS(time.Hour+2*time.Minute+3*time.Second))
}

func TestRenderMetronome_Ball(t *testing.T) {
	top := renderMetronome(metronome.PoseAt(1), DisplayStyleBall, 9, 6)
	lines := strings.Split(top, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, strings.Repeat("─", 9), lines[5])
	assert.Contains(t, lines[0], "●")

	landed := strings.Split(renderMetronome(metronome.PoseAt(1.99), DisplayStyleBall, 9, 6), "\n")
	assert.Contains(t, landed[4], "▬▬▬")
}

func TestRenderMetronome_Pedal(t *testing.T) {
	lines := strings.Split(renderMetronome(metronome.PoseAt(0), DisplayStylePedal, 20, 9), "\n")
	require.Len(t, lines, 9)

	// Rod points straight up at angle zero
	assert.Equal(t, 'o', []rune(lines[4])[10])
	assert.Equal(t, '■', []rune(lines[1])[10])

	// A quarter turn later it points right
	lines = strings.Split(renderMetronome(metronome.PoseAt(0.25), DisplayStylePedal, 20, 9), "\n")
	assert.Equal(t, '■', []rune(lines[4])[16])
}

func TestRenderMetronome_EmptyArea(t *testing.T) {
	assert.Empty(t, renderMetronome(metronome.PoseAt(0), DisplayStyleBall, 0, 10))
}
