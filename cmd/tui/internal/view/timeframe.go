package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

// Timeframe is a predefined or custom creation-date range.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = map[Timeframe]string{
	TimeframeToday:     "Today",
	TimeframeThisWeek:  "This Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if s, ok := timeframeLabels[t]; ok {
		return s
	}

	return "Unknown"
}

// Range returns the inclusive day range for t relative to now. Weeks start on
// Monday. TimeframeAll and TimeframeCustom yield zero times.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch t {
	case TimeframeToday:
		return dayRange(day, day)
	case TimeframeThisWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return dayRange(day.AddDate(0, 0, -offset), day)
	case TimeframeThisMonth:
		return dayRange(time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location()), day)
	case TimeframeLastMonth:
		first := time.Date(day.Year(), day.Month()-1, 1, 0, 0, 0, 0, day.Location())
		return dayRange(first, first.AddDate(0, 1, -1))
	}

	return time.Time{}, time.Time{}
}

// dayRange stretches end to its last nanosecond so the whole day matches.
func dayRange(start, end time.Time) (time.Time, time.Time) {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).
		AddDate(0, 0, 1).Add(-time.Nanosecond)

	return start, end
}

// TimeframeSelectedMsg is emitted when the user has picked a range.
// Start and End are zero values when All is true.
type TimeframeSelectedMsg struct {
	Label string
	Start time.Time
	End   time.Time
	All   bool
}

// Apply narrows filter to the selected range.
func (msg TimeframeSelectedMsg) Apply(filter transaction.ListFilter) transaction.ListFilter {
	if msg.All {
		filter.StartDate, filter.EndDate = nil, nil
		return filter
	}

	filter.StartDate = new(msg.Start)
	filter.EndDate = new(msg.End)

	return filter
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker lets the user choose a range from a list or type one in.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	initial  Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	newInput := func(prompt string) textinput.Model {
		in := textinput.New()
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 12
		in.Prompt = prompt

		return in
	}

	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   initial,
		initial:    initial,
		now:        time.Now,
		startInput: newInput("Start Date: "),
		endInput:   newInput("End Date:   "),
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.state == timeframeStateSelect {
			return m.updateSelect(keyMsg)
		}

		if next, cmd, handled := m.updateCustom(keyMsg); handled {
			return next, cmd
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > TimeframeToday {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case TimeframeCustom:
			m.state = timeframeStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		case TimeframeAll:
			return m, emit(TimeframeSelectedMsg{Label: m.selected.String(), All: true})
		}

		start, end := m.selected.Range(m.now())

		return m, emit(TimeframeSelectedMsg{Label: m.selected.String(), Start: start, End: end})
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = 1 - m.focusIndex
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		start, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(m.startInput.Value()), time.Local)
		if err != nil {
			m.err = fmt.Errorf("invalid start date (YYYY-MM-DD)")
			return m, nil, true
		}

		end, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(m.endInput.Value()), time.Local)
		if err != nil {
			m.err = fmt.Errorf("invalid end date (YYYY-MM-DD)")
			return m, nil, true
		}

		if end.Before(start) {
			m.err = fmt.Errorf("end date is before start date")
			return m, nil, true
		}

		m.err = nil
		start, end = dayRange(start, end)
		label := fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end))

		return m, emit(TimeframeSelectedMsg{Label: label, Start: start, End: end}), true

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var startCmd, endCmd tea.Cmd

	m.startInput, startCmd = m.startInput.Update(msg)
	m.endInput, endCmd = m.endInput.Update(msg)

	return m, tea.Batch(startCmd, endCmd)
}

func emit(msg TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	var sb strings.Builder

	sb.WriteString("Select Timeframe:\n\n")

	for tf := TimeframeToday; tf <= TimeframeCustom; tf++ {
		cursor := " "
		if m.selected == tf {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %s\n", cursor, tf)
	}

	sb.WriteString("\n(Enter to select, Esc to back)")

	return sb.String() + errStr
}

// IsSelecting reports whether the picker shows the list rather than the custom inputs.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.selected = m.initial
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
