package enrich

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrompt(t *testing.T) {
	p, err := LoadPrompt("")
	require.NoError(t, err)

	assert.Len(t, p.Instructions, 6)
	assert.Len(t, p.Examples, 2)
	assert.Contains(t, p.Categories, "Design")

	out := p.Render("uma ferramenta para desenhar diagramas UML online")

	assert.Contains(t, out, "1. Sugira um título conciso e claro.")
	assert.Contains(t, out, "Ex: Desenvolvimento, Design, Produtividade, Marketing, Segurança, etc.")
	assert.NotContains(t, out, "{categories}")
	assert.Contains(t, out, `"titulo", "emoji", "categoria", "descricao" e "url"`)
	assert.Contains(t, out, `"url": "https://www.figma.com/"`)
	assert.True(t, strings.HasSuffix(out, "\"uma ferramenta para desenhar diagramas UML online\"\n"),
		"user text must close the prompt, got:\n%s", out)
}

func TestLoadPromptFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
role: You classify web tools.
instructions:
  - "Pick one of: {categories}."
categories: [Dev, Ops]
closing: "Tool:"
`), 0o644))

	p, err := LoadPrompt(path)
	require.NoError(t, err)

	assert.Equal(t, "You classify web tools.\n1. Pick one of: Dev, Ops.\n\nTool:\n\"kubectl\"\n", p.Render("kubectl"))
}

func TestLoadPromptErrors(t *testing.T) {
	_, err := LoadPrompt(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParsePrompt([]byte("role: [unterminated"))
	assert.Error(t, err)

	_, err = ParsePrompt([]byte("role: only a role\n"))
	assert.ErrorContains(t, err, "no instructions")
}
