package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/refiner/internal/schema"
)

func TestReadStatement(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		got, err := readStatement("from flag", "ignored.txt", strings.NewReader("stdin"))
		require.NoError(t, err)
		assert.Equal(t, "from flag", got)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "problem.txt")
		require.NoError(t, os.WriteFile(path, []byte("  from file\n"), 0644))

		got, err := readStatement("", path, strings.NewReader("stdin"))
		require.NoError(t, err)
		assert.Equal(t, "from file", got)
	})

	t.Run("stdin", func(t *testing.T) {
		got, err := readStatement("", "", strings.NewReader("from stdin\n"))
		require.NoError(t, err)
		assert.Equal(t, "from stdin", got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readStatement("", filepath.Join(t.TempDir(), "nope.txt"), nil)
		assert.ErrorContains(t, err, "read statement")
	})
}

func TestFormatErrors(t *testing.T) {
	got := formatErrors(schema.Errors{
		schema.FieldSolution: "Solution statement must be at least 10 characters.",
		schema.FieldProblem:  "Problem statement cannot exceed 1000 characters.",
	})
	assert.Equal(t, "Problem statement cannot exceed 1000 characters. Solution statement must be at least 10 characters.", got)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "compose", "improve", "export", "stats", "migrate"} {
		assert.True(t, names[want], want)
	}
}
