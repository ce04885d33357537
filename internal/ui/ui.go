package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mspforge/contactsync/internal/models"
	"github.com/mspforge/contactsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlanView ViewState = iota
	ContactListView
	ConfirmView
	PushView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.SyncEngine
	opts         tasks.PlanOpts
	width        int
	height       int
	contactList  list.Model
	bar          progress.Model
	plan         *tasks.SyncPlan
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.PushResult
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	back  key.Binding
	yes   key.Binding
	no    key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.yes, k.no},
		{k.quit},
	}
}

// contactItem wraps [models.Candidate] to implement list.Item.
type contactItem struct {
	candidate models.Candidate
}

func (i contactItem) FilterValue() string { return i.candidate.Contact.DisplayName() }
func (i contactItem) Title() string       { return i.candidate.Contact.DisplayName() }
func (i contactItem) Description() string {
	desc := i.candidate.Contact.Email
	if i.candidate.Contact.Phone != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.candidate.Contact.Phone)
	}
	return desc
}

type planCompleteMsg struct {
	plan *tasks.SyncPlan
	err  error
}

type progressUpdateMsg tasks.ProgressUpdate

type pushCompleteMsg struct {
	result *tasks.PushResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.SyncEngine, opts tasks.PlanOpts) *Model {
	return &Model{
		ctx:    ctx,
		view:   PlanView,
		engine: engine,
		opts:   opts,
		bar:    progress.New(progress.WithDefaultGradient()),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init kicks off the plan phase.
func (m *Model) Init() tea.Cmd {
	return m.startPlan()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.contactList.Width() == 0 {
			m.contactList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlanView, PushView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ContactListView:
			return m.handleContactListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case planCompleteMsg:
		m.progressChan = nil
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.plan = msg.plan
		items := make([]list.Item, len(msg.plan.Candidates))
		for i, candidate := range msg.plan.Candidates {
			items[i] = contactItem{candidate: candidate}
		}
		m.contactList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.contactList.Title = fmt.Sprintf("Contacts to create (%d)", msg.plan.Count())
		m.contactList.SetSize(m.width-4, m.height-8)
		m.view = ContactListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case pushCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlanView:
		return m.renderPlan()
	case ContactListView:
		return m.renderContactList()
	case ConfirmView:
		return m.renderConfirm()
	case PushView:
		return m.renderPush()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleContactListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.plan.Count() == 0 {
			m.view = ResultView
			return m, nil
		}
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.contactList, cmd = m.contactList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ContactListView
		return m, nil
	case "q", "ctrl+c", "n":
		// declining writes nothing
		return m, tea.Quit
	case "y":
		m.view = PushView
		return m, m.startPush()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == ContactListView {
		m.contactList, cmd = m.contactList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startPlan() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		plan, err := m.engine.Plan(m.ctx, m.opts, m.progressChan)
		m.plan = plan
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) startPush() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Push(m.ctx, m.plan, m.progressChan)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan != nil {
			if update, ok := <-m.progressChan; ok {
				return progressUpdateMsg(update)
			}
		}
		if m.view == PushView {
			return pushCompleteMsg{result: m.result, err: m.err}
		}
		return planCompleteMsg{plan: m.plan, err: m.err}
	}
}

func (m *Model) renderPlan() string {
	title := styles.title.Render("Planning Sync")
	phase := m.progress.Message
	if phase == "" {
		phase = "Connecting..."
	}
	return fmt.Sprintf("%s\n\n%s", title, phase)
}

func (m *Model) renderContactList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.contactList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Create %d contacts in Autotask?", m.plan.Count()))
	info := fmt.Sprintf(
		"\nOrganizations: %d\nSkipped (license filter): %d\nSkipped (missing fields): %d\nSkipped (duplicates): %d\n",
		len(m.plan.Orgs),
		m.plan.SkippedLicense,
		m.plan.SkippedMissingFields,
		m.plan.SkippedDuplicates,
	)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderPush() string {
	title := styles.title.Render("Creating Contacts")

	var phase string
	var pct float64
	switch m.progress.Phase {
	case tasks.CreateContacts:
		phase = fmt.Sprintf("Creating contacts (%d/%d)", m.progress.Step, m.progress.Total)
		if m.progress.Total > 0 {
			pct = float64(m.progress.Step) / float64(m.progress.Total)
		}
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.bar.ViewAs(pct), m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		count := 0
		if m.plan != nil {
			count = m.plan.Count()
		}
		return fmt.Sprintf("%s\n\nNo contacts were written. Candidates found: %d\n\nPress q to quit",
			styles.warn.Render("Nothing to do"), count)
	}

	title := styles.ok.Render("✓ Sync Complete")
	info := fmt.Sprintf(
		"\nRun: %s\nCreated: %d\nFailed: %d",
		m.result.RunID,
		m.result.Created,
		m.result.Failed,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to create %d contacts:", m.result.Failed)))
		for _, res := range m.result.Results {
			if res.Err != "" {
				failed += fmt.Sprintf("\n  • %s: %s", res.Candidate.Contact.DisplayName(), res.Err)
			}
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
