// Package result renders the final refined view and exports it.
package result

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/abdulachik/refiner/internal/notify"
	"github.com/abdulachik/refiner/internal/schema"
)

// Notification texts.
const (
	CopiedMessage      = "Copied to clipboard!"
	CopyFailedMessage  = "Unable to copy."
	ShareFailedMessage = "Unable to share."
)

// ShareTitle is passed to a Sharer alongside the content.
const ShareTitle = "Refined Problem & Solution"

// ErrNoSharer is returned by Share when no native sharing target exists
// and the copy fallback also failed.
var ErrNoSharer = errors.New("no share target available")

// FinalView is the value handed from the compose stage to the present stage.
// The form submits what the fields hold, so a refined field already carries
// its refinement output and each Improved value equals its raw counterpart.
// Callers outside the form may set them apart.
type FinalView struct {
	Perspective      schema.Perspective
	Problem          string
	Solution         string
	ImprovedProblem  string
	ImprovedSolution string
}

// Content renders the exported text of v.
func Content(v FinalView) string {
	return fmt.Sprintf("Predict Growth\n\nPerspective: %s\n\nImproved Problem:\n%s\n\nImproved Solution:\n%s",
		v.Perspective, v.ImprovedProblem, v.ImprovedSolution)
}

// Filename returns the download file name for v.
func Filename(v FinalView) string {
	return fmt.Sprintf("RefinedStatements-%s.txt", v.Perspective)
}

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// Sharer hands content to a native share target.
type Sharer interface {
	Share(ctx context.Context, title, text string) error
}

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

var clipboardWrite = clipboard.WriteAll

// WriteAll copies text to the OS clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard unsupported on this system")
	}
	return clipboardWrite(text)
}

// Renderer performs the present-stage actions. It keeps no view state;
// every action takes the view it acts on.
type Renderer struct {
	clipboard Clipboard
	sharer    Sharer
	notifier  notify.Notifier
}

// Config holds the collaborators for a Renderer.
type Config struct {
	Clipboard Clipboard // defaults to SystemClipboard
	Sharer    Sharer    // optional
	Notifier  notify.Notifier
}

// NewRenderer creates a Renderer.
func NewRenderer(cfg Config) *Renderer {
	cb := cfg.Clipboard
	if cb == nil {
		cb = SystemClipboard{}
	}
	return &Renderer{clipboard: cb, sharer: cfg.Sharer, notifier: cfg.Notifier}
}

// Download writes the content of v to dir and returns the file path.
func (r *Renderer) Download(v FinalView, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, Filename(v))
	if err := os.WriteFile(path, []byte(Content(v)), 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Copy puts the content of v on the clipboard and notifies the outcome.
func (r *Renderer) Copy(ctx context.Context, v FinalView) error {
	if err := r.clipboard.WriteAll(Content(v)); err != nil {
		slog.Error("copy failed", "error", err)
		notify.Error(ctx, r.notifier, CopyFailedMessage)
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	notify.Success(ctx, r.notifier, CopiedMessage)
	return nil
}

// Share sends the content of v to the Sharer, or copies it when there is
// none. Failures are notified once as a share failure.
func (r *Renderer) Share(ctx context.Context, v FinalView) error {
	content := Content(v)

	if r.sharer == nil {
		if err := r.clipboard.WriteAll(content); err != nil {
			slog.Error("share failed", "error", err)
			notify.Error(ctx, r.notifier, ShareFailedMessage)
			return fmt.Errorf("%w: %w", ErrNoSharer, err)
		}
		notify.Success(ctx, r.notifier, CopiedMessage)
		return nil
	}

	if err := r.sharer.Share(ctx, ShareTitle, content); err != nil {
		slog.Error("share failed", "error", err)
		notify.Error(ctx, r.notifier, ShareFailedMessage)
		return fmt.Errorf("share: %w", err)
	}
	return nil
}
