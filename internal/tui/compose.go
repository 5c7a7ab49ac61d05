package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abdulachik/refiner/internal/form"
	"github.com/abdulachik/refiner/internal/result"
	"github.com/abdulachik/refiner/internal/schema"
)

type focus int

const (
	focusPerspective focus = iota
	focusProblem
	focusSolution
	focusCount
)

// improveDoneMsg reports a settled refinement.
type improveDoneMsg struct {
	kind schema.FieldKind
	err  error
}

// generatedMsg hands the final view to the present stage.
type generatedMsg struct {
	view result.FinalView
}

type composeModel struct {
	ctx  context.Context
	form *form.Controller

	problem  textarea.Model
	solution textarea.Model
	spinner  spinner.Model
	help     help.Model

	focus focus
	errs  schema.Errors
	width int
}

func newCompose(ctx context.Context, ctl *form.Controller) composeModel {
	st := ctl.State()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := composeModel{
		ctx:      ctx,
		form:     ctl,
		problem:  newStatementArea("Describe the problem here...", st.Problem.Text),
		solution: newStatementArea("Describe your solution here...", st.Solution.Text),
		spinner:  sp,
		help:     help.New(),
		width:    80,
	}
	m.setFocus(focusProblem)
	return m
}

func newStatementArea(placeholder, value string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(4)
	ta.SetWidth(76)
	ta.SetValue(value)
	return ta
}

func (m *composeModel) setFocus(f focus) {
	m.focus = f
	m.problem.Blur()
	m.solution.Blur()
	switch f {
	case focusProblem:
		m.problem.Focus()
	case focusSolution:
		m.solution.Focus()
	}
}

func (m *composeModel) setWidth(width int) {
	m.width = width
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	m.problem.SetWidth(inner)
	m.solution.SetWidth(inner)
	m.help.Width = width
}

func (m *composeModel) area(kind schema.FieldKind) *textarea.Model {
	if kind == schema.KindSolution {
		return &m.solution
	}
	return &m.problem
}

func (m composeModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m composeModel) Update(msg tea.Msg) (composeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case improveDoneMsg:
		if errors.Is(msg.err, form.ErrClosed) {
			return m, nil
		}
		if msg.err == nil {
			m.syncArea(msg.kind)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, composeKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, composeKeys.Next):
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case key.Matches(msg, composeKeys.Prev):
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil
		case key.Matches(msg, composeKeys.ImproveProblem):
			return m, m.improve(schema.KindProblem)
		case key.Matches(msg, composeKeys.ImproveSolution):
			return m, m.improve(schema.KindSolution)
		case key.Matches(msg, composeKeys.Generate):
			return m.generate()
		}

		if m.focus == focusPerspective {
			switch {
			case key.Matches(msg, composeKeys.PerspectiveLeft):
				m.cyclePerspective(-1)
			case key.Matches(msg, composeKeys.PerspectiveRight):
				m.cyclePerspective(1)
			}
			return m, nil
		}
	}

	return m.updateArea(msg)
}

// updateArea forwards msg to the focused text area and mirrors its value
// into the form.
func (m composeModel) updateArea(msg tea.Msg) (composeModel, tea.Cmd) {
	var kind schema.FieldKind
	switch m.focus {
	case focusProblem:
		kind = schema.KindProblem
	case focusSolution:
		kind = schema.KindSolution
	default:
		return m, nil
	}

	ta := m.area(kind)
	before := ta.Value()
	var cmd tea.Cmd
	*ta, cmd = ta.Update(msg)
	if ta.Value() != before {
		m.form.Set(kind, ta.Value())
		if len(m.errs) > 0 {
			m.revalidate(kind, ta.Value())
		}
	}
	return m, cmd
}

// syncArea copies the form's text for kind into its text area.
func (m *composeModel) syncArea(kind schema.FieldKind) {
	text := m.form.State().Field(kind).Text
	m.area(kind).SetValue(text)
	if len(m.errs) > 0 {
		m.revalidate(kind, text)
	}
}

func (m *composeModel) revalidate(kind schema.FieldKind, text string) {
	field := string(kind)
	if msg := schema.CheckField(kind, text); msg != "" {
		m.errs[field] = msg
		return
	}
	delete(m.errs, field)
}

func (m *composeModel) cyclePerspective(step int) {
	opts := schema.Perspectives()
	current := m.form.State().Perspective
	idx := 0
	for i, opt := range opts {
		if opt.Value == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(opts)) % len(opts)
	m.form.SetPerspective(opts[idx].Value)
}

// improve starts a refinement unless one is already running for kind.
func (m composeModel) improve(kind schema.FieldKind) tea.Cmd {
	if m.form.State().Field(kind).Improving {
		return nil
	}
	ctx, ctl := m.ctx, m.form
	return func() tea.Msg {
		return improveDoneMsg{kind: kind, err: ctl.Improve(ctx, kind)}
	}
}

func (m composeModel) generate() (composeModel, tea.Cmd) {
	view, errs := m.form.Generate()
	if len(errs) > 0 {
		m.errs = errs
		return m, nil
	}
	m.errs = nil
	m.form.Close()
	return m, func() tea.Msg { return generatedMsg{view: view} }
}

func (m composeModel) View() string {
	st := m.form.State()
	var b strings.Builder

	label := labelStyle
	if m.focus == focusPerspective {
		label = focusedLabelStyle
	}
	b.WriteString(label.Render("Perspective") + "  ")
	for _, opt := range schema.Perspectives() {
		if opt.Value == st.Perspective {
			b.WriteString(focusedLabelStyle.Render("‹ "+opt.Label+" ›") + " ")
		} else {
			b.WriteString(mutedStyle.Render("  "+opt.Label+"  ") + " ")
		}
	}
	b.WriteString("\n")
	if msg := m.errs[schema.FieldPerspective]; msg != "" {
		b.WriteString(fieldErrorStyle.Render(msg) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.fieldView("Problem Statement", schema.KindProblem, st.Problem, m.focus == focusProblem))
	b.WriteString("\n")
	b.WriteString(m.fieldView("Solution Statement", schema.KindSolution, st.Solution, m.focus == focusSolution))
	b.WriteString("\n")
	b.WriteString(m.help.View(composeKeys))

	return b.String()
}

func (m composeModel) fieldView(title string, kind schema.FieldKind, f form.Field, focused bool) string {
	label := labelStyle
	if focused {
		label = focusedLabelStyle
	}

	header := label.Render(title)
	switch {
	case f.Improving:
		header += " " + m.spinner.View() + mutedStyle.Render(" refining...")
	case f.Refined():
		header += " " + refinedBadgeStyle.Render("✓ refined")
	}
	count := fmt.Sprintf("%d/%d", utf8.RuneCountInString(f.Text), schema.MaxLength)
	header += "  " + mutedStyle.Render(count)

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(panelStyle.Render(m.area(kind).View()) + "\n")
	if msg := m.errs[string(kind)]; msg != "" {
		b.WriteString(fieldErrorStyle.Render(msg) + "\n")
	}
	return b.String()
}
