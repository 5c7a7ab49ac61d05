// Package form drives the compose stage: the two statements, the
// perspective, the per-field Improve actions and Generate.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/abdulachik/refiner/internal/notify"
	"github.com/abdulachik/refiner/internal/result"
	"github.com/abdulachik/refiner/internal/schema"
)

// TooShortMessage is shown when Improve is requested on a short statement.
const TooShortMessage = "Please enter a valid statement (at least 10 characters) before improving."

var (
	// ErrTooShort is returned when the field holds fewer than schema.MinLength characters.
	ErrTooShort = errors.New("statement too short to improve")

	// ErrInFlight is returned when the field already has a refinement running.
	ErrInFlight = errors.New("refinement already in progress")

	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("form closed")
)

// Refiner refines a statement. *client.Client satisfies it.
type Refiner interface {
	Improve(ctx context.Context, text string, kind schema.FieldKind, perspective schema.Perspective) (string, error)
}

// Field is one statement input.
type Field struct {
	Text      string
	Improved  string // last refinement output, "" if never refined
	Improving bool
}

// Refined reports whether the field still holds its last refinement output.
func (f Field) Refined() bool {
	return f.Improved != "" && f.Improved == f.Text
}

// State is a snapshot of the form.
type State struct {
	Perspective schema.Perspective
	Problem     Field
	Solution    Field
}

// Field returns the field for kind.
func (s State) Field(kind schema.FieldKind) Field {
	if kind == schema.KindSolution {
		return s.Solution
	}
	return s.Problem
}

// Config holds the controller's collaborators and initial values.
type Config struct {
	Refiner     Refiner
	Notifier    notify.Notifier
	Perspective schema.Perspective // defaults to investor
	Problem     string
	Solution    string
}

// Controller holds the compose form state. Safe for concurrent use; the two
// fields refine independently.
type Controller struct {
	refiner  Refiner
	notifier notify.Notifier

	mu     sync.Mutex
	state  State
	closed bool
}

// New creates a controller.
func New(cfg Config) *Controller {
	perspective := cfg.Perspective
	if perspective == "" {
		perspective = schema.PerspectiveInvestor
	}
	return &Controller{
		refiner:  cfg.Refiner,
		notifier: cfg.Notifier,
		state: State{
			Perspective: perspective,
			Problem:     Field{Text: cfg.Problem},
			Solution:    Field{Text: cfg.Solution},
		},
	}
}

// field returns a pointer into state. Caller holds mu.
func (c *Controller) field(kind schema.FieldKind) *Field {
	if kind == schema.KindSolution {
		return &c.state.Solution
	}
	return &c.state.Problem
}

// Set replaces the text of a field.
func (c *Controller) Set(kind schema.FieldKind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.field(kind).Text = text
}

// SetProblem replaces the problem text.
func (c *Controller) SetProblem(text string) { c.Set(schema.KindProblem, text) }

// SetSolution replaces the solution text.
func (c *Controller) SetSolution(text string) { c.Set(schema.KindSolution, text) }

// SetPerspective changes the audience perspective.
func (c *Controller) SetPerspective(p schema.Perspective) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Perspective = p
}

// State returns a snapshot of the form.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close discards any refinement still in flight. Completions arriving
// after Close change nothing and raise no notification.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Improve refines the text of one field in place. It blocks until the
// refinement settles; callers run it off the UI loop.
func (c *Controller) Improve(ctx context.Context, kind schema.FieldKind) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	f := c.field(kind)
	text := f.Text
	if utf8.RuneCountInString(text) < schema.MinLength {
		c.mu.Unlock()
		notify.Error(ctx, c.notifier, TooShortMessage)
		return ErrTooShort
	}
	if f.Improving {
		c.mu.Unlock()
		notify.Warning(ctx, c.notifier, fmt.Sprintf("Your %s statement is already being refined.", kind))
		return ErrInFlight
	}
	f.Improving = true
	perspective := c.state.Perspective
	c.mu.Unlock()

	notify.Info(ctx, c.notifier, fmt.Sprintf("Sending your %s statement to be refined. Please wait...", kind))

	improved, err := c.refiner.Improve(ctx, text, kind, perspective)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	f = c.field(kind)
	f.Improving = false
	if err != nil {
		c.mu.Unlock()
		slog.Error("failed to improve statement", "kind", kind, "error", err)
		notify.Error(ctx, c.notifier, err.Error())
		return fmt.Errorf("improve %s: %w", kind, err)
	}
	f.Text = improved
	f.Improved = improved
	c.mu.Unlock()

	notify.Success(ctx, c.notifier, fmt.Sprintf("%s statement improved successfully.", kind.Label()))
	return nil
}

// Generate validates the form and builds the final view. The improved values
// are the current texts: a refined field holds its refinement output, and an
// unrefined or hand-edited field is submitted as typed.
func (c *Controller) Generate() (result.FinalView, schema.Errors) {
	c.mu.Lock()
	defer c.mu.Unlock()

	form, errs := schema.Validate(schema.Input{
		Problem:     c.state.Problem.Text,
		Solution:    c.state.Solution.Text,
		Perspective: string(c.state.Perspective),
	})
	if len(errs) > 0 {
		return result.FinalView{}, errs
	}

	return result.FinalView{
		Perspective:      form.Perspective,
		Problem:          form.Problem,
		Solution:         form.Solution,
		ImprovedProblem:  form.Problem,
		ImprovedSolution: form.Solution,
	}, nil
}
