package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/diaglog"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewForm
	ViewLogs
)

const logTailLines = 200

// Store is the part of state.Store the views drive.
type Store interface {
	FetchAll(ctx context.Context) ([]api.Item, error)
	GetByID(ctx context.Context, id int64) (api.Item, error)
	Create(ctx context.Context, dto api.CreateItemDTO) (api.Item, error)
	Update(ctx context.Context, id int64, dto api.UpdateItemDTO) (api.Item, error)
	Delete(ctx context.Context, id int64) error
	Snapshot() state.Snapshot
	Subscribe() (<-chan state.Snapshot, func())
}

var _ Store = (*state.Store)(nil)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     Store
	BaseURL   string
	ThemeName string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx         context.Context
	store       Store
	baseURL     string
	logPath     string
	updates     <-chan state.Snapshot
	unsubscribe func()

	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	view    View
	width   int
	height  int

	snapshot state.Snapshot
	cursor   int
	detail   api.Item
	form     itemForm
	notice   string

	confirmDelete bool
	deleteID      int64

	logs   []diaglog.Entry
	logErr string

	showHelp bool
}

// New creates the model and subscribes it to store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		store:   opts.Store,
		baseURL: opts.BaseURL,
		logPath: opts.LogPath,
		theme:   GetTheme(opts.ThemeName),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		view:    ViewList,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
		m.updates, m.unsubscribe = m.store.Subscribe()
	}
	return m
}

// Close stops the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.updates != nil {
		cmds = append(cmds, waitForSnapshot(m.updates))
	}
	// The app normally loads before the program starts.
	if m.store != nil && m.snapshot.LastUpdated.IsZero() {
		cmds = append(cmds, fetchAllCmd(m.ctx, m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitForSnapshot(m.updates)

	case itemsLoadedMsg:
		m.syncSnapshot()
		return m, nil

	case itemLoadedMsg:
		m.syncSnapshot()
		if msg.err == nil && m.view == ViewDetail && msg.item.ID == m.detail.ID {
			m.detail = msg.item
		}
		return m, nil

	case itemSavedMsg:
		m.syncSnapshot()
		if msg.err != nil {
			m.form.err = m.snapshot.Err
			return m, nil
		}
		m.detail = msg.item
		m.view = ViewDetail
		m.notice = "Saved"
		return m, nil

	case itemDeletedMsg:
		m.syncSnapshot()
		if msg.err != nil {
			return m, nil
		}
		m.notice = "Deleted"
		if m.view == ViewDetail && m.detail.ID == msg.id {
			m.view = ViewList
		}
		return m, nil

	case logsLoadedMsg:
		m.logs = msg.entries
		m.logErr = ""
		if msg.err != nil {
			m.logErr = msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) syncSnapshot() {
	if m.store != nil {
		m.applySnapshot(m.store.Snapshot())
	}
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.snapshot.Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (api.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Items) {
		return api.Item{}, false
	}
	return m.snapshot.Items[m.cursor], true
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.confirmDelete {
		return m.handleConfirmKey(msg)
	}
	if m.view == ViewForm {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, nil
	}

	m.notice = ""
	switch m.view {
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snapshot.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.snapshot.Items) - 1
		m.clampCursor()
	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selected(); ok {
			m.detail = item
			m.view = ViewDetail
			return m, getByIDCmd(m.ctx, m.store, item.ID)
		}
	case key.Matches(msg, m.keys.New):
		m.form = newCreateForm()
		m.view = ViewForm
	case key.Matches(msg, m.keys.Edit):
		if item, ok := m.selected(); ok {
			m.form = newEditForm(item)
			m.view = ViewForm
		}
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			m.confirmDelete = true
			m.deleteID = item.ID
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, fetchAllCmd(m.ctx, m.store)
	case key.Matches(msg, m.keys.Logs):
		m.view = ViewLogs
		return m, loadLogsCmd(m.logPath)
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = ViewList
	case key.Matches(msg, m.keys.Edit):
		m.form = newEditForm(m.detail)
		m.view = ViewForm
	case key.Matches(msg, m.keys.Delete):
		m.confirmDelete = true
		m.deleteID = m.detail.ID
	case key.Matches(msg, m.keys.Refresh):
		return m, getByIDCmd(m.ctx, m.store, m.detail.ID)
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = ViewList
	case key.Matches(msg, m.keys.Refresh):
		return m, loadLogsCmd(m.logPath)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirmDelete = false
		return m, deleteCmd(m.ctx, m.store, m.deleteID)
	case key.Matches(msg, m.keys.Deny):
		m.confirmDelete = false
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		if m.form.mode == formEdit && m.detail.ID == m.form.original.ID {
			m.view = ViewDetail
		} else {
			m.view = ViewList
		}
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.setFocus(m.form.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.setFocus(m.form.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	}
	m.form.err = ""
	return m, m.form.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.form.mode == formCreate {
		dto, err := m.form.createDTO()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		return m, createCmd(m.ctx, m.store, dto)
	}
	dto, err := m.form.updateDTO()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	return m, updateCmd(m.ctx, m.store, m.form.original.ID, dto)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderContent(bodyHeight), footer)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent(height int) string {
	switch m.view {
	case ViewDetail:
		return m.renderDetail()
	case ViewForm:
		return m.form.view(m.theme.Styles(), m.width)
	case ViewLogs:
		return m.renderLogs(height)
	default:
		return m.renderList(height)
	}
}

// Messages

type snapshotMsg state.Snapshot

type itemsLoadedMsg struct{ err error }

type itemLoadedMsg struct {
	item api.Item
	err  error
}

type itemSavedMsg struct {
	item api.Item
	err  error
}

type itemDeletedMsg struct {
	id  int64
	err error
}

type logsLoadedMsg struct {
	entries []diaglog.Entry
	err     error
}

// Commands

func waitForSnapshot(updates <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func fetchAllCmd(ctx context.Context, store Store) tea.Cmd {
	return func() tea.Msg {
		_, err := store.FetchAll(ctx)
		return itemsLoadedMsg{err: err}
	}
}

func getByIDCmd(ctx context.Context, store Store, id int64) tea.Cmd {
	return func() tea.Msg {
		item, err := store.GetByID(ctx, id)
		return itemLoadedMsg{item: item, err: err}
	}
}

func createCmd(ctx context.Context, store Store, dto api.CreateItemDTO) tea.Cmd {
	return func() tea.Msg {
		item, err := store.Create(ctx, dto)
		return itemSavedMsg{item: item, err: err}
	}
}

func updateCmd(ctx context.Context, store Store, id int64, dto api.UpdateItemDTO) tea.Cmd {
	return func() tea.Msg {
		item, err := store.Update(ctx, id, dto)
		return itemSavedMsg{item: item, err: err}
	}
}

func deleteCmd(ctx context.Context, store Store, id int64) tea.Cmd {
	return func() tea.Msg {
		return itemDeletedMsg{id: id, err: store.Delete(ctx, id)}
	}
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := diaglog.Tail(path, logTailLines)
		entries := make([]diaglog.Entry, 0, len(lines))
		for _, line := range lines {
			entries = append(entries, diaglog.ParseLine(line))
		}
		return logsLoadedMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
