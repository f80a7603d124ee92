package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finances/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finances/internal/category"
	categoryStore "github.com/MrJamesThe3rd/finances/internal/category/store"
	"github.com/MrJamesThe3rd/finances/internal/config"
	"github.com/MrJamesThe3rd/finances/internal/database"
	"github.com/MrJamesThe3rd/finances/internal/export"
	"github.com/MrJamesThe3rd/finances/internal/importer"
	"github.com/MrJamesThe3rd/finances/internal/logger"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
	txStore "github.com/MrJamesThe3rd/finances/internal/transaction/store"
)

const logFile = "finances-tui.log"

type model struct {
	txService     *transaction.Service
	catService    *category.Service
	importService *importer.Service
	exportService *export.Service
	stagingDir    string

	currentView View

	createView view.CreateModel
	listView   view.ListModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewCreate View = 1
	ViewList   View = 2
	ViewImport View = 3
	ViewExport View = 4
)

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func initialModel() (model, func()) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fail("failed to open log file", err)
	}

	log := logger.NewWithWriter(f).Level(logger.ParseLevel(cfg.Log.Level))

	db, err := database.Open(context.Background(), cfg.ConnectionString())
	if err != nil {
		fail("failed to connect to database", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			fail("failed to migrate database", err)
		}
	}

	txSvc := transaction.NewService(txStore.New(db))
	catSvc := category.NewService(categoryStore.New(db))
	impSvc := importer.NewService(txSvc, catSvc, log, importer.Config{
		FromLine:   cfg.Import.FromLine,
		Similarity: cfg.Import.Similarity,
	})
	expSvc := export.NewService(txSvc)

	m := model{
		txService:     txSvc,
		catService:    catSvc,
		importService: impSvc,
		exportService: expSvc,
		stagingDir:    cfg.Import.UploadDir,
		currentView:   ViewMenu,
	}

	cleanup := func() {
		db.Close()
		f.Close()
	}

	return m, cleanup
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCreate
				m.createView = view.NewCreateModel(m.txService, m.catService)

				return m, m.createView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService, m.stagingDir)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Finances\n\n" +
				"1. New Transaction\n" +
				"2. List Transactions\n" +
				"3. Import CSV\n" +
				"4. Export CSV\n\n" +
				"q. Quit",
		)
	case ViewCreate:
		current = m.createView
	case ViewList:
		current = m.listView
	case ViewImport:
		current = m.importView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).PaddingLeft(1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	m, cleanup := initialModel()
	defer cleanup()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run TUI: %v\n", err)
		os.Exit(1)
	}
}
