package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildPrompt assembles the outbound prompt: a fixed preamble quoting the
// user's question, followed by an indented dump of contextData when non-nil.
func BuildPrompt(userText string, contextData any) string {
	prompt := fmt.Sprintf("User question: '%s'", userText)
	if contextData == nil {
		return prompt
	}

	dump, err := json.MarshalIndent(contextData, "", "  ")
	if err != nil {
		// Unserializable context is dropped; the question still goes out.
		return prompt
	}
	return prompt + "\n\nHere is some relevant context:\n" + string(dump)
}

// UnwrapMarkdownFence strips a markdown-tagged code fence wrapping the whole
// reply. Deliberately narrow: only an opening fence at the very start
// qualifies, along with one trailing closing fence. Fences elsewhere, or
// untagged fences, pass through unmodified.
func UnwrapMarkdownFence(reply string) string {
	const opening = "```markdown\n"
	if !strings.HasPrefix(reply, opening) {
		return reply
	}

	body := strings.TrimPrefix(reply, opening)
	trimmed := strings.TrimRight(body, "\n")
	if strings.HasSuffix(trimmed, "\n```") {
		return strings.TrimSuffix(trimmed, "\n```")
	}
	if trimmed == "```" {
		return ""
	}
	return body
}
