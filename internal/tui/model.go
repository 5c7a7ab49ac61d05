// Package tui is the terminal front end: a compose stage for editing and
// refining the two statements, and a present stage for the final view.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulachik/refiner/internal/form"
	"github.com/abdulachik/refiner/internal/notify"
	"github.com/abdulachik/refiner/internal/result"
	"github.com/abdulachik/refiner/internal/schema"
)

const toastDuration = 4 * time.Second

type stage int

const (
	stageCompose stage = iota
	stagePresent
)

type notificationMsg notify.Notification

type clearToastMsg struct {
	id int
}

// Options configures the terminal UI.
type Options struct {
	Refiner     form.Refiner
	Clipboard   result.Clipboard // defaults to the system clipboard
	Sharer      result.Sharer    // optional
	ExportDir   string
	Perspective schema.Perspective
}

// Model is the root bubbletea model.
type Model struct {
	ctx      context.Context
	opts     Options
	notes    *notify.Channel
	renderer *result.Renderer

	stage   stage
	compose composeModel
	present presentModel

	toast   *notify.Notification
	toastID int
	width   int
}

// New creates the root model in the compose stage.
func New(ctx context.Context, opts Options) Model {
	notes := notify.NewChannel(32)
	ctl := form.New(form.Config{
		Refiner:     opts.Refiner,
		Notifier:    notes,
		Perspective: opts.Perspective,
	})

	return Model{
		ctx:   ctx,
		opts:  opts,
		notes: notes,
		renderer: result.NewRenderer(result.Config{
			Clipboard: opts.Clipboard,
			Sharer:    opts.Sharer,
			Notifier:  notes,
		}),
		stage:   stageCompose,
		compose: newCompose(ctx, ctl),
	}
}

// Run starts the UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.compose.form.Close()
	}
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.compose.Init(), m.waitForNotification())
}

func (m Model) waitForNotification() tea.Cmd {
	ch := m.notes.C()
	return func() tea.Msg {
		return notificationMsg(<-ch)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.compose.setWidth(msg.Width)
		m.present.setWidth(msg.Width)
		return m, nil

	case notificationMsg:
		n := notify.Notification(msg)
		m.toast = &n
		m.toastID++
		id := m.toastID
		return m, tea.Batch(
			m.waitForNotification(),
			tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{id: id} }),
		)

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case generatedMsg:
		m.stage = stagePresent
		m.present = newPresent(m.ctx, msg.view, m.renderer, m.notes, m.opts.ExportDir)
		m.present.setWidth(m.width)
		return m, nil

	case backMsg:
		ctl := form.New(form.Config{
			Refiner:     m.opts.Refiner,
			Notifier:    m.notes,
			Perspective: msg.view.Perspective,
			Problem:     msg.view.ImprovedProblem,
			Solution:    msg.view.ImprovedSolution,
		})
		m.stage = stageCompose
		m.compose = newCompose(m.ctx, ctl)
		if m.width > 0 {
			m.compose.setWidth(m.width)
		}
		return m, m.compose.Init()

	case improveDoneMsg:
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.stage {
	case stagePresent:
		m.present, cmd = m.present.Update(msg)
	default:
		m.compose, cmd = m.compose.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	header := titleStyle.Render("Predict Growth")
	if m.toast != nil {
		header += "  " + toastStyle(m.toast.Level).Render(m.toast.Message)
	}

	var body string
	switch m.stage {
	case stagePresent:
		body = m.present.View()
	default:
		body = m.compose.View()
	}
	return header + "\n\n" + body
}
