package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/repositories"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProjectListView ViewState = iota
	ArtifactListView
	ConfirmView
	ExtractView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx               context.Context
	view              ViewState
	projects          *repositories.ProjectRepository
	engine            tasks.Engine
	width             int
	height            int
	projectList       list.Model
	artifactList      list.Model
	selectedProject   *models.Project
	selectedArtifacts []models.ArtifactType
	progressChan      chan tasks.ProgressUpdate
	progress          tasks.ProgressUpdate
	result            *tasks.BatchResult
	err               error
	help              help.Model
	keys              keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, projects *repositories.ProjectRepository, engine tasks.Engine) *Model {
	return &Model{
		ctx:      ctx,
		view:     ProjectListView,
		projects: projects,
		engine:   engine,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by loading stored projects.
func (m *Model) Init() tea.Cmd {
	return m.loadProjects()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.projectList.Width() == 0 {
			m.projectList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.artifactList.Width() == 0 {
			m.artifactList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProjectListView:
			return m.handleProjectListKeys(msg)
		case ArtifactListView:
			return m.handleArtifactListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case projectsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.projects))
		for i, project := range msg.projects {
			items[i] = projectItem{project: project}
		}
		m.projectList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.projectList.Title = "Azure DevOps Projects"
		m.projectList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case extractionCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ProjectListView:
		return m.renderProjectList()
	case ArtifactListView:
		return m.renderArtifactList()
	case ConfirmView:
		return m.renderConfirm()
	case ExtractView:
		return m.renderExtract()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleProjectListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.projectList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(projectItem); ok {
				m.selectedProject = item.project
				m.buildArtifactList()
				m.view = ArtifactListView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.projectList, cmd = m.projectList.Update(msg)
	return m, cmd
}

func (m *Model) handleArtifactListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ProjectListView
		return m, nil
	case "a":
		m.selectedArtifacts = models.AllArtifactTypes()
		m.view = ConfirmView
		return m, nil
	case "enter":
		selected := m.artifactList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(artifactItem); ok {
				m.selectedArtifacts = []models.ArtifactType{item.artifact}
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.artifactList, cmd = m.artifactList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = ArtifactListView
		return m, nil
	case "y":
		m.view = ExtractView
		return m, m.startExtraction()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ProjectListView
		m.selectedProject = nil
		m.selectedArtifacts = nil
		m.result = nil
		m.err = nil
		return m, m.loadProjects()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ProjectListView:
		m.projectList, cmd = m.projectList.Update(msg)
	case ArtifactListView:
		m.artifactList, cmd = m.artifactList.Update(msg)
	}
	return m, cmd
}

func (m *Model) buildArtifactList() {
	artifacts := models.AllArtifactTypes()
	items := make([]list.Item, len(artifacts))
	for i, artifact := range artifacts {
		items[i] = artifactItem{artifact: artifact, project: m.selectedProject}
	}
	m.artifactList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.artifactList.Title = fmt.Sprintf("Artifacts in '%s'", m.selectedProject.Name)
	m.artifactList.SetSize(m.width-4, m.height-8)
}

func (m *Model) loadProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.projects.List(nil)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m *Model) startExtraction() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.ExtractBatch(m.ctx, progressChan, m.selectedProject.ID(), m.selectedArtifacts, tasks.BatchOpts{})
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return extractionCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return extractionCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderProjectList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.projectList.View(), helpView)
}

func (m *Model) renderArtifactList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.all, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.artifactList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	var what string
	if len(m.selectedArtifacts) == 1 {
		what = m.selectedArtifacts[0].String()
	} else {
		what = fmt.Sprintf("all %d artifact types", len(m.selectedArtifacts))
	}
	title := styles.title.Render(fmt.Sprintf("Extract %s from '%s'?", what, m.selectedProject.Name))
	info := fmt.Sprintf("\nProject: %s\nArtifact types: %d\n", m.selectedProject.Name, len(m.selectedArtifacts))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExtract() string {
	title := styles.title.Render("Extracting Artifacts")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchStarted:
		phase = fmt.Sprintf("Fetching %s...", m.progress.Artifact)
	case tasks.FetchFetched:
		phase = fmt.Sprintf("Fetched %s (%d items)", m.progress.Artifact, m.progress.Total)
	case tasks.BatchQueued:
		phase = fmt.Sprintf("Queued %s (%d/%d)", m.progress.Artifact, m.progress.Step, m.progress.Total)
	case tasks.BatchSettled:
		phase = fmt.Sprintf("Settled %s (%d/%d)", m.progress.Artifact, m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Extraction failed: %v\n\nPress r to restart, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to restart, q to quit")
	}

	title := styles.ok.Render("✓ Extraction Complete")
	info := fmt.Sprintf(
		"\nProject: %s\nSucceeded: %d/%d\nSkipped: %d",
		m.selectedProject.Name,
		m.result.Succeeded,
		m.result.Total,
		m.result.Skipped,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed %d artifact types:", m.result.Failed)))
		for _, outcome := range m.result.Outcomes {
			if outcome.Error != nil {
				failed += fmt.Sprintf("\n  • %s: %v", outcome.Artifact, outcome.Error)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
