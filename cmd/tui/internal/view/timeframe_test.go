package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOf(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func TestTimeframe_Range(t *testing.T) {
	wednesday := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	january := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{name: "Today", tf: TimeframeToday, now: wednesday, wantStart: day(2026, 10, 14), wantEnd: endOf(day(2026, 10, 14))},
		{name: "ThisWeekMidweek", tf: TimeframeThisWeek, now: wednesday, wantStart: day(2026, 10, 12), wantEnd: endOf(day(2026, 10, 14))},
		{name: "ThisWeekSunday", tf: TimeframeThisWeek, now: sunday, wantStart: day(2026, 10, 12), wantEnd: endOf(day(2026, 10, 18))},
		{name: "ThisMonth", tf: TimeframeThisMonth, now: wednesday, wantStart: day(2026, 10, 1), wantEnd: endOf(day(2026, 10, 14))},
		{name: "LastMonth", tf: TimeframeLastMonth, now: wednesday, wantStart: day(2026, 9, 1), wantEnd: endOf(day(2026, 9, 30))},
		{name: "LastMonthAcrossYear", tf: TimeframeLastMonth, now: january, wantStart: day(2025, 12, 1), wantEnd: endOf(day(2025, 12, 31))},
		{name: "All", tf: TimeframeAll, now: wednesday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.tf.Range(tt.now)

			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}

func TestTimeframeSelectedMsg_Apply(t *testing.T) {
	income := transaction.TypeIncome
	base := transaction.ListFilter{Type: &income}

	got := TimeframeSelectedMsg{Start: day(2026, 10, 1), End: endOf(day(2026, 10, 31))}.Apply(base)
	require.NotNil(t, got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, &income, got.Type)
	assert.Equal(t, day(2026, 10, 1), *got.StartDate)

	got = TimeframeSelectedMsg{All: true}.Apply(got)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, &income, got.Type)
}

func TestTimeframePicker_SelectsAllTime(t *testing.T) {
	p := NewTimeframePicker(TimeframeLastMonth)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.True(t, msg.All)
	assert.Equal(t, "All Time", msg.Label)
}

func TestTimeframePicker_CustomRangeRejectsReversedDates(t *testing.T) {
	p := NewTimeframePicker(TimeframeCustom)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, p.IsSelecting())

	p.startInput.SetValue("2026-10-10")
	p.endInput.SetValue("2026-10-01")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Error(t, p.err)

	p.endInput.SetValue("2026-10-20")

	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd().(TimeframeSelectedMsg)
	assert.Equal(t, 10, msg.Start.Day())
	assert.Equal(t, 20, msg.End.Day())
	assert.Equal(t, "2026-10-10 to 2026-10-20", msg.Label)
}
