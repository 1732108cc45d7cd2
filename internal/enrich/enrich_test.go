package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/toolshelf/internal/logger"
)

type fakeGenerator struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newTestClient(t *testing.T, gen Generator) *Client {
	t.Helper()
	p, err := LoadPrompt("")
	require.NoError(t, err)

	c := NewClient(gen, p, logger.Nop())
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	c.newID = func() string { return "fixed-id" }
	return c
}

func TestEnrichSuccess(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"titulo\": \"draw.io\", \"emoji\": \"📐\", \"categoria\": \"Design\", \"descricao\": \"Cria diagramas.\", \"url\": \"https://draw.io\"}\n```"}
	c := newTestClient(t, gen)
	input := "  Uma ferramenta para desenhar diagramas UML online  "

	tool, err := c.Enrich(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", tool.ID)
	assert.Equal(t, "draw.io", tool.Title)
	assert.Equal(t, "https://draw.io", tool.URL)
	assert.Equal(t, input, tool.OriginalText, "original text is kept verbatim")
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), tool.CreatedAt)

	require.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompts[0], `"`+input+`"`)
}

func TestEnrichSchemeLessURL(t *testing.T) {
	gen := &fakeGenerator{reply: `{"titulo": "Miro", "emoji": "🧠", "categoria": "Produtividade", "descricao": "Quadro branco.", "url": "miro.com"}`}

	tool, err := newTestClient(t, gen).Enrich(context.Background(), "miro.com for whiteboards")
	require.NoError(t, err)
	assert.Equal(t, "", tool.URL)
}

func TestEnrichEmptySubmission(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestClient(t, gen)

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := c.Enrich(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptySubmission)
	}
	assert.Zero(t, gen.calls, "no model call for blank input")
}

func TestEnrichFailures(t *testing.T) {
	transport := errors.New("connection reset")

	tests := []struct {
		name      string
		gen       *fakeGenerator
		wantStage string
		wantCause error
	}{
		{name: "transport error", gen: &fakeGenerator{err: transport}, wantStage: "generate", wantCause: transport},
		{name: "prose reply", gen: &fakeGenerator{reply: "Sorry, I cannot help with that."}, wantStage: "parse"},
		{name: "array reply", gen: &fakeGenerator{reply: `[{"titulo": "x"}]`}, wantStage: "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := newTestClient(t, tt.gen).Enrich(context.Background(), "something")
			require.Error(t, err)
			assert.Zero(t, tool, "no partial record on failure")
			assert.ErrorIs(t, err, ErrEnrichment)

			var ee *EnrichError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.wantStage, ee.Stage)
			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
		})
	}
}
