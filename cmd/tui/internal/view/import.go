package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finances/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service
	stagingDir    string

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string

	result *importer.Result
	err    error
}

// NewImportModel picks CSV files from the working directory. The chosen file
// is copied into stagingDir first because a successful import deletes its
// input.
func NewImportModel(impSvc *importer.Service, stagingDir string) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		importService: impSvc,
		stagingDir:    stagingDir,
		filePicker:    fp,
		spinner:       s,
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == importStateResult {
				m.state = importStateFilePick
				m.result, m.err = nil, nil

				return m, m.filePicker.Init()
			}

			if m.state == importStateFilePick {
				return m, Back
			}
		}

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case importStateImporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case importStateFilePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = importStateImporting
			m.path = path

			return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
		}

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a CSV file (title,type,value,category):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Importing %s...", m.spinner.View(), m.path),
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	var sb strings.Builder

	sb.WriteString(successStyle.Render(fmt.Sprintf("Imported %d transactions.", len(m.result.Transactions))))
	sb.WriteString("\n")

	if m.result.Skipped > 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("Skipped %d incomplete rows.", m.result.Skipped)))
		sb.WriteString("\n")
	}

	if len(m.result.NewCategories) > 0 {
		titles := make([]string, len(m.result.NewCategories))
		for i, c := range m.result.NewCategories {
			titles[i] = c.Title
		}

		fmt.Fprintf(&sb, "\nNew categories: %s\n", strings.Join(titles, ", "))
	}

	for _, sc := range m.result.SimilarCategories {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%q looks like existing category %q", sc.Title, sc.Existing)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n(Esc to go back)")

	return style.Render(sb.String())
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}

		staged, err := importer.Stage(f, m.stagingDir)
		f.Close()

		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.ImportFile(ctx, staged)
		if err != nil {
			_ = os.Remove(staged)
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}
