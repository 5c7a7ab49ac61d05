package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := strings.Repeat("a", MinLength)

	t.Run("accepts bounds", func(t *testing.T) {
		for _, n := range []int{MinLength, 11, 500, MaxLength} {
			text := strings.Repeat("x", n)
			form, errs := Validate(Input{Problem: text, Solution: text, Perspective: "investor"})
			assert.Empty(t, errs, "length %d", n)
			assert.Equal(t, text, form.Problem)
			assert.Equal(t, PerspectiveInvestor, form.Perspective)
		}
	})

	t.Run("rejects short problem", func(t *testing.T) {
		_, errs := Validate(Input{Problem: "short", Solution: valid, Perspective: "market"})
		require.Len(t, errs, 1)
		assert.Equal(t, "Problem statement must be at least 10 characters.", errs[FieldProblem])
	})

	t.Run("rejects long solution", func(t *testing.T) {
		_, errs := Validate(Input{Problem: valid, Solution: strings.Repeat("y", MaxLength+1), Perspective: "market"})
		require.Len(t, errs, 1)
		assert.Equal(t, "Solution statement cannot exceed 1000 characters.", errs[FieldSolution])
	})

	t.Run("rejects empty perspective", func(t *testing.T) {
		_, errs := Validate(Input{Problem: valid, Solution: valid})
		assert.Contains(t, errs, FieldPerspective)
	})

	t.Run("any non-empty perspective passes", func(t *testing.T) {
		form, errs := Validate(Input{Problem: valid, Solution: valid, Perspective: "board"})
		assert.Empty(t, errs)
		assert.Equal(t, Perspective("board"), form.Perspective)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		_, errs := Validate(Input{})
		assert.Len(t, errs, 3)
	})
}

func TestCheckField(t *testing.T) {
	tests := []struct {
		name string
		kind FieldKind
		text string
		want string
	}{
		{"nine chars", KindProblem, "123456789", "Problem statement must be at least 10 characters."},
		{"ten chars", KindProblem, "1234567890", ""},
		{"multibyte counted as characters", KindSolution, "日本語日本語日本語日", ""},
		{"too long", KindSolution, strings.Repeat("z", 1001), "Solution statement cannot exceed 1000 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckField(tt.kind, tt.text))
		})
	}
}

func TestParsePerspective(t *testing.T) {
	p, err := ParsePerspective(" Investor ")
	require.NoError(t, err)
	assert.Equal(t, PerspectiveInvestor, p)

	_, err = ParsePerspective("regulator")
	assert.Error(t, err)
}

func TestParseFieldKind(t *testing.T) {
	k, err := ParseFieldKind("SOLUTION")
	require.NoError(t, err)
	assert.Equal(t, KindSolution, k)
	assert.Equal(t, "Solution", k.Label())

	_, err = ParseFieldKind("summary")
	assert.Error(t, err)
}

func TestPerspectives(t *testing.T) {
	opts := Perspectives()
	require.Len(t, opts, 3)
	assert.Equal(t, "Investor", opts[0].Label)

	opts[0].Label = "changed"
	assert.Equal(t, "Investor", Perspectives()[0].Label)
}
