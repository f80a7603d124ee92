package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finances/internal/category"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

type createState int

const (
	createStateForm createState = iota
	createStateSaving
	createStateResult
)

// createFields lives on the heap so the form keeps writing to the same
// values while bubbletea copies the model around.
type createFields struct {
	title    string
	typ      string
	value    string
	category string
}

type CreateModel struct {
	CommonModel
	txService  *transaction.Service
	catService *category.Service

	state      createState
	form       *huh.Form
	fields     *createFields
	catInput   *huh.Input
	suggestion []string

	created *transaction.Transaction
	err     error
}

func NewCreateModel(txSvc *transaction.Service, catSvc *category.Service) CreateModel {
	m := CreateModel{
		txService:  txSvc,
		catService: catSvc,
	}
	m.resetForm()

	return m
}

func (m CreateModel) Title() string { return "New Transaction" }

func (m CreateModel) ShortHelp() string {
	if m.state == createStateResult {
		return "Enter: new transaction | Esc: back"
	}

	return "Tab: next field | Enter: submit | Esc: back"
}

func (m CreateModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.loadCategoriesCmd())
}

func (m *CreateModel) resetForm() {
	m.fields = &createFields{typ: string(transaction.TypeOutcome)}
	m.state = createStateForm
	m.created = nil
	m.err = nil

	m.catInput = huh.NewInput().
		Key("category").
		Title("Category").
		Description("Created if it does not exist yet").
		Suggestions(m.suggestion).
		Value(&m.fields.category).
		Validate(notBlank("category"))

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.fields.title).
				Validate(notBlank("title")),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Outcome", string(transaction.TypeOutcome)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&m.fields.typ),

			huh.NewInput().
				Key("value").
				Title("Value").
				Placeholder("0.00").
				Value(&m.fields.value).
				Validate(validValue),

			m.catInput,
		),
	).WithWidth(50).WithShowHelp(false)
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func validValue(s string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("value must be a number")
	}

	if v.IsNegative() {
		return errors.New("value cannot be negative")
	}

	if v.GreaterThanOrEqual(transaction.MaxValue) {
		return fmt.Errorf("value must be lower than %s", transaction.MaxValue)
	}

	return nil
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.err == nil && m.state == createStateForm {
			m.suggestion = msg.titles
			m.catInput.Suggestions(msg.titles)
		}

		return m, nil

	case createResultMsg:
		m.state = createStateResult
		m.created = msg.tx
		m.err = msg.err

		return m, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	switch m.state {
	case createStateForm:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = createStateSaving

		return m, m.saveCmd()

	case createStateResult:
		if isKey && keyMsg.Type == tea.KeyEnter {
			m.resetForm()
			return m, tea.Batch(m.form.Init(), m.loadCategoriesCmd())
		}
	}

	return m, nil
}

func (m CreateModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case createStateSaving:
		return style.Render("Saving...")
	case createStateResult:
		if errors.Is(m.err, transaction.ErrInsufficientBalance) {
			return style.Render(warnStyle.Render(m.err.Error()) + "\n\n(Enter for a new transaction, Esc to go back)")
		}

		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Enter to retry, Esc to go back)")
		}

		return style.Render(successStyle.Render(fmt.Sprintf("Saved %s %s in %s.",
			m.created.Title, FormatSigned(m.created), CategoryTitle(m.created))) +
			"\n\n(Enter for a new transaction, Esc to go back)")
	}

	return style.Render(m.form.View())
}

type categoriesLoadedMsg struct {
	titles []string
	err    error
}

func (m CreateModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := m.catService.List(ctx)
		if err != nil {
			return categoriesLoadedMsg{err: err}
		}

		titles := make([]string, len(cats))
		for i, c := range cats {
			titles[i] = c.Title
		}

		return categoriesLoadedMsg{titles: titles}
	}
}

type createResultMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m CreateModel) saveCmd() tea.Cmd {
	fields := *m.fields

	return func() tea.Msg {
		value, err := decimal.NewFromString(strings.TrimSpace(fields.value))
		if err != nil {
			return createResultMsg{err: fmt.Errorf("%w: %v", transaction.ErrInvalidParams, err)}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, transaction.CreateParams{
			Title:    fields.title,
			Type:     transaction.Type(fields.typ),
			Value:    value,
			Category: fields.category,
		})

		return createResultMsg{tx: tx, err: err}
	}
}
