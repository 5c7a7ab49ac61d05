// Package schema holds the field constraints shared by the compose form and
// the refine API: statement length bounds, field kinds and perspectives.
package schema

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MinLength is the minimum statement length in characters.
	MinLength = 10

	// MaxLength is the maximum statement length in characters.
	MaxLength = 1000
)

// Field names used as keys in Errors.
const (
	FieldProblem     = "problem"
	FieldSolution    = "solution"
	FieldPerspective = "perspective"
)

// FieldKind identifies which statement is being refined.
type FieldKind string

const (
	KindProblem  FieldKind = "problem"
	KindSolution FieldKind = "solution"
)

// Label returns the capitalised kind, e.g. "Problem".
func (k FieldKind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// ParseFieldKind accepts "problem" or "solution" in any case.
func ParseFieldKind(s string) (FieldKind, error) {
	switch FieldKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindProblem:
		return KindProblem, nil
	case KindSolution:
		return KindSolution, nil
	}
	return "", fmt.Errorf("invalid field kind %q (must be 'problem' or 'solution')", s)
}

// Perspective is the audience lens used to tailor refined phrasing.
type Perspective string

const (
	PerspectiveInvestor Perspective = "investor"
	PerspectiveMarket   Perspective = "market"
	PerspectiveCustomer Perspective = "customer"
)

// Option is a selectable perspective with its display label.
type Option struct {
	Value Perspective
	Label string
}

var perspectiveOptions = []Option{
	{Value: PerspectiveInvestor, Label: "Investor"},
	{Value: PerspectiveMarket, Label: "Market"},
	{Value: PerspectiveCustomer, Label: "Customer"},
}

// Perspectives returns the known perspectives in display order.
func Perspectives() []Option {
	out := make([]Option, len(perspectiveOptions))
	copy(out, perspectiveOptions)
	return out
}

// ParsePerspective accepts one of the known perspectives in any case.
func ParsePerspective(s string) (Perspective, error) {
	p := Perspective(strings.ToLower(strings.TrimSpace(s)))
	for _, opt := range perspectiveOptions {
		if opt.Value == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid perspective %q (must be investor, market or customer)", s)
}

// Input is a candidate form value.
type Input struct {
	Problem     string
	Solution    string
	Perspective string
}

// Form is a validated form value.
type Form struct {
	Problem     string
	Solution    string
	Perspective Perspective
}

// Errors maps a field name to a human-readable message. An empty map means
// the input is valid.
type Errors map[string]string

// Validate checks in against the form constraints. Perspective is only
// required to be non-empty; the known values are not enforced here.
func Validate(in Input) (Form, Errors) {
	errs := Errors{}

	if in.Perspective == "" {
		errs[FieldPerspective] = "Perspective is required."
	}
	if msg := CheckField(KindProblem, in.Problem); msg != "" {
		errs[FieldProblem] = msg
	}
	if msg := CheckField(KindSolution, in.Solution); msg != "" {
		errs[FieldSolution] = msg
	}

	if len(errs) > 0 {
		return Form{}, errs
	}
	return Form{
		Problem:     in.Problem,
		Solution:    in.Solution,
		Perspective: Perspective(in.Perspective),
	}, errs
}

// CheckField validates a single statement and returns the message for the
// violated bound, or "" when text is within bounds.
func CheckField(kind FieldKind, text string) string {
	n := utf8.RuneCountInString(text)
	switch {
	case n < MinLength:
		return fmt.Sprintf("%s statement must be at least %d characters.", kind.Label(), MinLength)
	case n > MaxLength:
		return fmt.Sprintf("%s statement cannot exceed %d characters.", kind.Label(), MaxLength)
	}
	return ""
}
