package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "json fence", reply: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", reply: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "upper tag", reply: "```JSON {\"a\": 1} ```", want: `{"a": 1}`},
		{name: "surrounding whitespace", reply: "  \n```json\n{}\n```\n ", want: `{}`},
		{name: "no fence", reply: "  {\"a\": 1}  ", want: `{"a": 1}`},
		{name: "opening fence only", reply: "```json\n{\"a\": 1}", want: "```json\n{\"a\": 1}"},
		{name: "lone fence", reply: "```", want: "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFence(tt.reply))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want domain.Tool
	}{
		{
			name: "complete reply",
			raw:  map[string]any{"titulo": "Figma", "emoji": "🎨", "categoria": "Design", "descricao": "Protótipos.", "url": "https://www.figma.com/"},
			want: domain.Tool{Title: "Figma", Emoji: "🎨", Category: "Design", Description: "Protótipos.", URL: "https://www.figma.com/"},
		},
		{
			name: "missing emoji and url",
			raw:  map[string]any{"titulo": "X"},
			want: domain.Tool{Title: "X", Emoji: domain.DefaultEmoji},
		},
		{
			name: "non-string emoji and url",
			raw:  map[string]any{"emoji": 42.0, "url": []any{"https://a"}},
			want: domain.Tool{Emoji: domain.DefaultEmoji},
		},
		{
			name: "url without scheme",
			raw:  map[string]any{"url": "miro.com"},
			want: domain.Tool{Emoji: domain.DefaultEmoji},
		},
		{
			name: "plain http url kept",
			raw:  map[string]any{"url": "http://example.org"},
			want: domain.Tool{Emoji: domain.DefaultEmoji, URL: "http://example.org"},
		},
		{
			name: "non-string text fields are absent",
			raw:  map[string]any{"titulo": 1.0, "categoria": nil, "descricao": true},
			want: domain.Tool{Emoji: domain.DefaultEmoji},
		},
		{
			name: "empty emoji string is kept",
			raw:  map[string]any{"emoji": ""},
			want: domain.Tool{Emoji: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestParseReply(t *testing.T) {
	tool, err := ParseReply("```json\n{\"titulo\": \"Miro\", \"emoji\": \"🧠\", \"categoria\": \"Produtividade\", \"descricao\": \"Quadro.\", \"url\": \"miro.com\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Miro", tool.Title)
	assert.Equal(t, "", tool.URL)

	for _, bad := range []string{"", "nope", "[1, 2]", "null", `"just a string"`, "```json\n{broken\n```"} {
		_, err := ParseReply(bad)
		assert.Error(t, err, "reply %q should be rejected", bad)
	}
}
