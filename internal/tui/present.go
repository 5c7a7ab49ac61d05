package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulachik/refiner/internal/notify"
	"github.com/abdulachik/refiner/internal/result"
)

// backMsg returns to the compose stage seeded from view.
type backMsg struct {
	view result.FinalView
}

// actionDoneMsg reports a finished present-stage action. Outcomes are
// surfaced through notifications.
type actionDoneMsg struct {
	err error
}

type presentModel struct {
	ctx       context.Context
	view      result.FinalView
	renderer  *result.Renderer
	notifier  notify.Notifier
	exportDir string

	help  help.Model
	width int
}

func newPresent(ctx context.Context, view result.FinalView, renderer *result.Renderer, notifier notify.Notifier, exportDir string) presentModel {
	return presentModel{
		ctx:       ctx,
		view:      view,
		renderer:  renderer,
		notifier:  notifier,
		exportDir: exportDir,
		help:      help.New(),
		width:     80,
	}
}

func (m *presentModel) setWidth(width int) {
	m.width = width
	m.help.Width = width
}

func (m presentModel) Update(msg tea.Msg) (presentModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	ctx, r, view := m.ctx, m.renderer, m.view
	switch {
	case key.Matches(keyMsg, presentKeys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, presentKeys.Back):
		return m, func() tea.Msg { return backMsg{view: view} }
	case key.Matches(keyMsg, presentKeys.Download):
		dir, n := m.exportDir, m.notifier
		return m, func() tea.Msg {
			path, err := r.Download(view, dir)
			if err != nil {
				slog.Error("download failed", "error", err)
				notify.Error(ctx, n, "Unable to download.")
				return actionDoneMsg{err: err}
			}
			notify.Success(ctx, n, "Saved to "+path)
			return actionDoneMsg{}
		}
	case key.Matches(keyMsg, presentKeys.Copy):
		return m, func() tea.Msg { return actionDoneMsg{err: r.Copy(ctx, view)} }
	case key.Matches(keyMsg, presentKeys.Share):
		return m, func() tea.Msg { return actionDoneMsg{err: r.Share(ctx, view)} }
	}
	return m, nil
}

func (m presentModel) View() string {
	body := panelStyle.Width(max(m.width-2, 20))

	var b strings.Builder
	b.WriteString(labelStyle.Render("Perspective:") + " " + strings.ToUpper(string(m.view.Perspective)) + "\n\n")
	b.WriteString(labelStyle.Render("Improved Problem:") + "\n" + m.view.ImprovedProblem + "\n\n")
	b.WriteString(labelStyle.Render("Improved Solution:") + "\n" + m.view.ImprovedSolution)

	return titleStyle.Render("Final Refined View") + "\n\n" +
		body.Render(b.String()) + "\n\n" +
		m.help.View(presentKeys)
}
