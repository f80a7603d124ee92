package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateTimeframe
)

// typeFilters is the cycle order of the "t" key.
var typeFilters = []*transaction.Type{nil, new(transaction.TypeIncome), new(transaction.TypeOutcome)}

type ListModel struct {
	CommonModel
	txService *transaction.Service

	state           listState
	table           table.Model
	timeframePicker TimeframePicker
	txs             []*transaction.Transaction

	filter         transaction.ListFilter
	typeIdx        int
	timeframeLabel string

	shown   transaction.Balance
	overall transaction.Balance

	loading bool
	err     error
}

func NewListModel(txSvc *transaction.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Value", Width: 14},
		{Title: "Category", Width: 20},
		{Title: "Title", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService:       txSvc,
		table:           t,
		timeframePicker: NewTimeframePicker(TimeframeAll),
		timeframeLabel:  TimeframeAll.String(),
		loading:         true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateTimeframe {
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | t: type filter | d: timeframe | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.txs = msg.txs
			m.shown = transaction.CalculateBalance(msg.txs)
			m.overall = msg.overall
			m.refreshTable()
		}

		return m, nil

	case TimeframeSelectedMsg:
		m.filter = msg.Apply(m.filter)
		m.timeframeLabel = msg.Label
		m.state = listStateBrowse
		m.table.Focus()
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	if m.state == listStateTimeframe {
		return m.updateTimeframe(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(typeFilters)
			m.filter.Type = typeFilters[m.typeIdx]
			m.loading = true

			return m, m.loadCmd()
		case "d":
			m.state = listStateTimeframe
			m.timeframePicker.Reset()
			m.table.Blur()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
		m.state = listStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ListModel) typeLabel() string {
	if t := typeFilters[m.typeIdx]; t != nil {
		return string(*t)
	}

	return "all"
}

func (m ListModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == listStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Timeframe: %s",
		activeStyle(m.typeLabel()),
		activeStyle(m.timeframeLabel),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	footer := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Shown   %d transactions  income %s  outcome %s  total %s",
			len(m.txs), FormatValue(m.shown.Income), FormatValue(m.shown.Outcome), totalStyle(m.shown)),
		fmt.Sprintf("Overall income %s  outcome %s  total %s",
			FormatValue(m.overall.Income), FormatValue(m.overall.Outcome), totalStyle(m.overall)),
	)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().PaddingTop(1).Render(footer),
	))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func totalStyle(b transaction.Balance) string {
	if b.Total.IsNegative() {
		return errorStyle.Render(FormatValue(b.Total))
	}

	return successStyle.Render(FormatValue(b.Total))
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.CreatedAt),
			string(tx.Type),
			FormatSigned(tx),
			CategoryTitle(tx),
			tx.Title,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs     []*transaction.Transaction
	overall transaction.Balance
	err     error
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)
		if err != nil {
			return loadListMsg{err: err}
		}

		overall, err := m.txService.Balance(ctx)
		if err != nil {
			return loadListMsg{err: err}
		}

		return loadListMsg{txs: txs, overall: overall}
	}
}
