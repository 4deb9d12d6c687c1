package cmd

import (
	"fmt"
	"strings"
)

// buildExplainSystemPrompt creates the system prompt for the explain command.
// The model is asked to describe structure only; credential values in the
// sample must never be echoed back.
func buildExplainSystemPrompt() string {
	return `You are a data format analyst. You are given sample lines from a
credential dump that an automated normalizer could not parse. Your job is to
describe the structure of these lines so the normalizer's rules can be
extended.

Guidelines:
- Group the sample lines into distinct formats and describe each format's
  field layout and delimiter
- Identify hash algorithms by digest length and alphabet where possible
- Suggest concretely how each format could be split into fields
- Never repeat full credential values; refer to fields by position and shape
- If lines look like non-credential noise (banners, HTML, binary junk), say so`
}

// buildExplainUserPrompt combines the file name and sampled rejected lines.
func buildExplainUserPrompt(path string, sample []rejectedLine) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("File: %s\n", path))
	sb.WriteString(fmt.Sprintf("Rejected lines sampled: %d\n\n", len(sample)))

	for _, rl := range sample {
		sb.WriteString(fmt.Sprintf("line %d [%s %.2f]: %s\n",
			rl.LineNumber, rl.Category, rl.Confidence, rl.Text))
	}

	sb.WriteString("\nDescribe the formats present and how to parse them.")
	return sb.String()
}
