package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("question only", func(t *testing.T) {
		got := BuildPrompt("how do i grow rice", nil)
		assert.Equal(t, "User question: 'how do i grow rice'", got)
	})

	t.Run("with context", func(t *testing.T) {
		got := BuildPrompt("rice tips", map[string]string{"name": "Rice"})
		assert.Equal(t, "User question: 'rice tips'\n\nHere is some relevant context:\n{\n  \"name\": \"Rice\"\n}", got)
	})

	t.Run("unserializable context is dropped", func(t *testing.T) {
		got := BuildPrompt("rice tips", func() {})
		assert.Equal(t, "User question: 'rice tips'", got)
	})
}

func TestUnwrapMarkdownFence(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "tagged fence around whole reply",
			reply: "```markdown\nUse neem oil.\n```",
			want:  "Use neem oil.",
		},
		{
			name:  "trailing newlines after closing fence",
			reply: "```markdown\nUse neem oil.\n```\n\n",
			want:  "Use neem oil.",
		},
		{
			name:  "untagged fence passes through",
			reply: "```\nUse neem oil.\n```",
			want:  "```\nUse neem oil.\n```",
		},
		{
			name:  "fence in the middle passes through",
			reply: "Here:\n```markdown\nplan\n```",
			want:  "Here:\n```markdown\nplan\n```",
		},
		{
			name:  "opening fence without closing keeps body",
			reply: "```markdown\nUse neem oil.",
			want:  "Use neem oil.",
		},
		{
			name:  "empty fenced block",
			reply: "```markdown\n```",
			want:  "",
		},
		{
			name:  "plain reply untouched",
			reply: "Use neem oil.",
			want:  "Use neem oil.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnwrapMarkdownFence(tt.reply))
		})
	}
}
