// Package prompt builds the instruction sent to the text-generation model.
package prompt

import (
	"fmt"
	"strings"
)

// RefinementPrompt is the instruction template sent to the text-generation
// model. Arguments: statement kind, audience perspective, original text.
const RefinementPrompt = `
You are a professional business copywriter.

Rewrite the following %s statement to be more polished, persuasive, and professional — tailored for a %s audience, in less than 1000 characters.

Focus on clarity, tone, and value delivery.

Do NOT include labels like "Improved Version" or quotes — just return the rewritten content.

Original:
%s
`

// Build returns the refinement prompt for text. Kind and perspective are
// lower-cased before interpolation.
func Build(text, kind, perspective string) string {
	return fmt.Sprintf(RefinementPrompt, strings.ToLower(kind), strings.ToLower(perspective), text)
}
