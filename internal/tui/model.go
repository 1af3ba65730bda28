// Package tui is the interactive terminal UI: a list of submitted feedback
// with the feedback dialog layered on top.
package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/internal/tui/feedback"
	tuinotify "github.com/colonyops/feedback/internal/tui/notify"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateConfirming
)

const (
	defaultListLimit = 200
	storeTimeout     = 10 * time.Second
)

// Options configures the TUI.
type Options struct {
	Store     corefeedback.Store
	Bus       *tuinotify.Bus
	Dialog    feedback.Options // OnClose and OnSubmit are set by the model
	ListLimit int
	Warnings  []string // startup warnings shown as toasts
}

type (
	listLoadedMsg struct {
		items []corefeedback.Submission
		total int64
		err   error
	}
	closeRequestedMsg struct{}
	submitRequestedMsg struct {
		payload corefeedback.Payload
	}
	submissionSavedMsg struct {
		session int
		sub     corefeedback.Submission
		err     error
	}
	submissionDeletedMsg struct {
		id  int64
		err error
	}
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	store     corefeedback.Store
	bus       *tuinotify.Bus
	dialog    *feedback.Dialog
	keys      KeyMap
	listLimit int
	warnings  []string

	state   UIState
	confirm Modal
	pending int64 // submission awaiting delete confirmation

	session int  // bumped every time the dialog opens
	saving  bool // a save for the current session is in flight

	items  []corefeedback.Submission
	total  int64
	cursor int

	toastController *ToastController
	toastView       *ToastView

	width, height int
	quitting      bool
}

// New creates the TUI model.
func New(opts Options) Model {
	if opts.Bus == nil {
		opts.Bus = tuinotify.NewBus(0)
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = defaultListLimit
	}

	dialogOpts := opts.Dialog
	dialogOpts.OnClose = func() tea.Cmd {
		return func() tea.Msg { return closeRequestedMsg{} }
	}
	dialogOpts.OnSubmit = func(p corefeedback.Payload) tea.Cmd {
		return func() tea.Msg { return submitRequestedMsg{payload: p} }
	}

	toasts := NewToastController(0, 0)
	opts.Bus.Subscribe(toasts.Push)

	return Model{
		store:           opts.Store,
		bus:             opts.Bus,
		dialog:          feedback.New(dialogOpts),
		keys:            DefaultKeyMap(),
		listLimit:       opts.ListLimit,
		warnings:        opts.Warnings,
		toastController: toasts,
		toastView:       NewToastView(toasts),
		width:           80,
		height:          24,
	}
}

// Init loads the submission list and shows startup warnings.
func (m Model) Init() tea.Cmd {
	for _, w := range m.warnings {
		m.bus.Warnf("%s", w)
	}
	return tea.Batch(m.loadList(), m.ensureToastTick())
}

func (m Model) loadList() tea.Cmd {
	store, limit := m.store, m.listLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		items, err := store.List(ctx, limit)
		if err != nil {
			return listLoadedMsg{err: err}
		}
		total, err := store.Count(ctx)
		return listLoadedMsg{items: items, total: total, err: err}
	}
}

func saveSubmission(store corefeedback.Store, session int, p corefeedback.Payload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		sub, err := store.Save(ctx, p)
		return submissionSavedMsg{session: session, sub: sub, err: err}
	}
}

func deleteSubmission(store corefeedback.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		return submissionDeletedMsg{id: id, err: store.Delete(ctx, id)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.dialog.SetSize(msg.Width, msg.Height)
		return m, nil

	case listLoadedMsg:
		return m.handleListLoaded(msg)
	case closeRequestedMsg:
		return m, m.dialog.SetOpen(false)
	case submitRequestedMsg:
		return m.handleSubmit(msg)
	case submissionSavedMsg:
		return m.handleSaved(msg)
	case submissionDeletedMsg:
		return m.handleDeleted(msg)
	case toastTickMsg:
		return m.handleToastTick()

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Everything else belongs to the dialog's async work.
	_, cmd := m.dialog.Update(msg)
	return m, cmd
}

func (m Model) handleListLoaded(msg listLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.notifyError("load feedback: %v", msg.err)
	}
	m.items, m.total = msg.items, msg.total
	m.cursor = min(m.cursor, max(len(m.items)-1, 0))
	return m, nil
}

// handleSubmit starts a save unless one is already running for the open
// dialog.
func (m Model) handleSubmit(msg submitRequestedMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		log.Debug().Int("session", m.session).Msg("save in progress, submit ignored")
		return m, nil
	}
	m.saving = true
	return m, saveSubmission(m.store, m.session, msg.payload)
}

// handleSaved reports the result of a save. Only a save started in the
// current dialog session may close the dialog.
func (m Model) handleSaved(msg submissionSavedMsg) (tea.Model, tea.Cmd) {
	current := msg.session == m.session
	if current {
		m.saving = false
	}

	if msg.err != nil {
		log.Error().Err(msg.err).Int("session", msg.session).Msg("save feedback")
		return m, m.notifyError("could not save feedback: %v", msg.err)
	}

	m.bus.Infof("Thanks! Feedback #%d saved", msg.sub.ID)
	m.cursor = 0
	cmds := []tea.Cmd{m.loadList(), m.ensureToastTick()}
	if current {
		cmds = append(cmds, m.dialog.SetOpen(false))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleDeleted(msg submissionDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.notifyError("delete feedback #%d: %v", msg.id, msg.err)
	}
	m.bus.Infof("Deleted feedback #%d", msg.id)
	return m, tea.Batch(m.loadList(), m.ensureToastTick())
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	m.toastController.Tick(toastTickInterval)
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toastController.SetTicking(false)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.dialog.Open() {
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		_, cmd := m.dialog.Update(msg)
		return m, cmd
	}

	if m.state == stateConfirming {
		switch m.confirm.HandleKey(msg) {
		case modalConfirmed:
			m.state = stateNormal
			return m, deleteSubmission(m.store, m.pending)
		case modalCancelled:
			m.state = stateNormal
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Feedback):
		m.session++
		m.saving = false
		return m, m.dialog.SetOpen(true)
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.items)-1, 0))
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadList()
	case key.Matches(msg, m.keys.Dismiss):
		m.toastController.Dismiss()
	case key.Matches(msg, m.keys.Delete):
		if sub, ok := m.selected(); ok {
			m.pending = sub.ID
			m.confirm = NewModal("Delete feedback", fmt.Sprintf("Delete #%d %q?", sub.ID, sub.Title))
			m.state = stateConfirming
		}
	}
	return m, nil
}

func (m Model) selected() (corefeedback.Submission, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return corefeedback.Submission{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) notifyError(format string, args ...any) tea.Cmd {
	m.bus.Errorf(format, args...)
	return m.ensureToastTick()
}

// ensureToastTick starts the toast timer when toasts are showing and no tick
// is scheduled.
func (m *Model) ensureToastTick() tea.Cmd {
	if !m.toastController.HasToasts() || m.toastController.Ticking() {
		return nil
	}
	m.toastController.SetTicking(true)
	return scheduleToastTick()
}
