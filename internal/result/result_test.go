package result

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/refiner/internal/notify"
	"github.com/abdulachik/refiner/internal/schema"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fakeSharer struct {
	title, text string
	err         error
}

func (f *fakeSharer) Share(_ context.Context, title, text string) error {
	f.title, f.text = title, text
	return f.err
}

var view = FinalView{
	Perspective:      schema.PerspectiveInvestor,
	Problem:          "raw problem text",
	Solution:         "raw solution text",
	ImprovedProblem:  "P",
	ImprovedSolution: "S",
}

func TestContent(t *testing.T) {
	assert.Equal(t,
		"Predict Growth\n\nPerspective: investor\n\nImproved Problem:\nP\n\nImproved Solution:\nS",
		Content(view))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		perspective schema.Perspective
		want        string
	}{
		{schema.PerspectiveInvestor, "RefinedStatements-investor.txt"},
		{schema.PerspectiveMarket, "RefinedStatements-market.txt"},
		{schema.PerspectiveCustomer, "RefinedStatements-customer.txt"},
	}

	for _, tt := range tests {
		t.Run(string(tt.perspective), func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(FinalView{Perspective: tt.perspective}))
		})
	}
}

func TestRenderer_Download(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	r := NewRenderer(Config{Clipboard: &fakeClipboard{}})

	path, err := r.Download(view, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "RefinedStatements-investor.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Content(view), string(data))
}

func TestRenderer_Copy(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		cb := &fakeClipboard{}
		rec := &notify.Recorder{}
		r := NewRenderer(Config{Clipboard: cb, Notifier: rec})

		require.NoError(t, r.Copy(context.Background(), view))
		assert.Equal(t, Content(view), cb.text)
		assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: "Copied to clipboard!"}}, rec.All())
	})

	t.Run("failure", func(t *testing.T) {
		rec := &notify.Recorder{}
		r := NewRenderer(Config{Clipboard: &fakeClipboard{err: errors.New("no display")}, Notifier: rec})

		assert.Error(t, r.Copy(context.Background(), view))
		assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Message: "Unable to copy."}}, rec.All())
	})
}

func TestRenderer_Share(t *testing.T) {
	t.Run("uses sharer", func(t *testing.T) {
		cb := &fakeClipboard{}
		sh := &fakeSharer{}
		rec := &notify.Recorder{}
		r := NewRenderer(Config{Clipboard: cb, Sharer: sh, Notifier: rec})

		require.NoError(t, r.Share(context.Background(), view))
		assert.Equal(t, ShareTitle, sh.title)
		assert.Equal(t, Content(view), sh.text)
		assert.Empty(t, cb.text)
		assert.Empty(t, rec.All())
	})

	t.Run("falls back to copy", func(t *testing.T) {
		cb := &fakeClipboard{}
		rec := &notify.Recorder{}
		r := NewRenderer(Config{Clipboard: cb, Notifier: rec})

		require.NoError(t, r.Share(context.Background(), view))
		assert.Equal(t, Content(view), cb.text)
		assert.Equal(t, 1, rec.Count(notify.LevelSuccess))
	})

	t.Run("fallback failure", func(t *testing.T) {
		rec := &notify.Recorder{}
		r := NewRenderer(Config{Clipboard: &fakeClipboard{err: errors.New("no display")}, Notifier: rec})

		err := r.Share(context.Background(), view)
		assert.ErrorIs(t, err, ErrNoSharer)
		assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Message: "Unable to share."}}, rec.All())
	})

	t.Run("sharer cancelled", func(t *testing.T) {
		rec := &notify.Recorder{}
		r := NewRenderer(Config{Clipboard: &fakeClipboard{}, Sharer: &fakeSharer{err: context.Canceled}, Notifier: rec})

		err := r.Share(context.Background(), view)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, rec.Count(notify.LevelError))
	})
}

func TestSystemClipboard(t *testing.T) {
	orig := clipboardWrite
	t.Cleanup(func() { clipboardWrite = orig })

	var got string
	clipboardWrite = func(text string) error {
		got = text
		return nil
	}

	err := SystemClipboard{}.WriteAll("hello")
	if err != nil {
		t.Skip("clipboard unsupported on this system")
	}
	assert.Equal(t, "hello", got)
}
