package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

func TestResponder_Canned(t *testing.T) {
	r := NewResponder(mockCatalog{}, nil)

	assert.Equal(t, "<greeting>", r.Canned(domain.ReplyGreeting))
	assert.Equal(t, "<clarification>", r.Canned(domain.ReplyClarification))
	assert.Empty(t, NewResponder(nil, nil).Canned(domain.ReplyHelp))
}

func TestResponder_Compose_NoResults(t *testing.T) {
	r := NewResponder(mockCatalog{}, nil)

	kind, text := r.Compose(context.Background(), "algo", nil)

	assert.Equal(t, domain.ReplyNoResults, kind)
	assert.Equal(t, "<no_results>", text)
}

func TestResponder_Compose_OutOfScope(t *testing.T) {
	llm := &mockLLM{reply: "should not be used"}
	r := NewResponder(mockCatalog{}, NewGenerateFunc(llm, driven.GenerateOptions{}))
	r.SetScopeCheck(func(q string) bool { return q == "matrícula" })

	kind, text := r.Compose(context.Background(), "matrícula", scoredDocs("/a"))

	assert.Equal(t, domain.ReplyOutOfScope, kind)
	assert.Equal(t, "<out_of_scope>", text)
	assert.Empty(t, llm.prompts)
}

func TestResponder_Compose_ListingWithoutLLM(t *testing.T) {
	r := NewResponder(mockCatalog{}, nil)

	kind, text := r.Compose(context.Background(), "dictadura", scoredDocs("/a", "/b"))

	assert.Equal(t, domain.ReplyResults, kind)
	assert.True(t, strings.HasPrefix(text, "📚 **He encontrado estos documentos relevantes:**"))
	assert.Contains(t, text, "1. **Documento /a**\n   🔗 [Ver documento](/a)")
	assert.Contains(t, text, "2. **Documento /b**")
}

func TestResponder_Compose_Generated(t *testing.T) {
	llm := &mockLLM{reply: "  Aquí tienes los documentos.  "}
	r := NewResponder(mockCatalog{}, NewGenerateFunc(llm, driven.GenerateOptions{}))

	kind, text := r.Compose(context.Background(), "dictadura", scoredDocs("/a"))

	assert.Equal(t, domain.ReplyResults, kind)
	assert.Equal(t, "Aquí tienes los documentos.", text)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "dictadura")
	assert.Contains(t, llm.prompts[0], "1. Documento /a (relevancia: 1.00)")
	assert.Contains(t, llm.prompts[0], "Temas: Dictadura")
	assert.Contains(t, llm.prompts[0], "URL: /a")
}

func TestResponder_Compose_DegradedListingOnFailure(t *testing.T) {
	for name, llm := range map[string]*mockLLM{
		"error":       {err: domain.ErrCircuitOpen},
		"empty reply": {reply: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewResponder(mockCatalog{}, NewGenerateFunc(llm, driven.GenerateOptions{}))

			kind, text := r.Compose(context.Background(), "dictadura", scoredDocs("/a"))

			assert.Equal(t, domain.ReplyResults, kind)
			assert.True(t, strings.HasPrefix(text, "📚 **Encontré estos documentos relevantes:**"))
			assert.Contains(t, text, "[Ver documento](/a)")
			assert.Contains(t, text, "💡 **Nota:**")
		})
	}
}

func TestResponder_Prompt_UsesStoreTemplate(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	r := NewResponder(mockCatalog{}, NewGenerateFunc(llm, driven.GenerateOptions{}))
	r.SetPromptStore(&mockPromptStore{templates: map[string]string{
		driven.PromptAnswer: "Q={query}\nDOCS={documents}",
	}})

	r.Compose(context.Background(), "golpe", scoredDocs("/a"))

	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "Q=golpe\nDOCS=1. Documento /a"))
}

func TestResponder_Prompt_PercentSignsAreLiteral(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	r := NewResponder(mockCatalog{}, NewGenerateFunc(llm, driven.GenerateOptions{}))
	r.SetPromptStore(&mockPromptStore{templates: map[string]string{
		driven.PromptAnswer: "Responde al 100% %s %d: {query}\n{documents}",
	}})

	r.Compose(context.Background(), "50% de {documents}", scoredDocs("/a"))

	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "Responde al 100% %s %d: 50% de {documents}\n1. Documento /a"))
	assert.NotContains(t, llm.prompts[0], "%!")
}

func TestResponder_Prompt_TemplateWithoutDocumentsIgnored(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	r := NewResponder(mockCatalog{}, NewGenerateFunc(llm, driven.GenerateOptions{}))
	r.SetPromptStore(&mockPromptStore{templates: map[string]string{
		driven.PromptAnswer: "Solo {query}",
	}})

	r.Compose(context.Background(), "golpe", scoredDocs("/a"))

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Archivo Patrimonial UAH")
	assert.Contains(t, llm.prompts[0], "URL: /a")
}

func TestResponder_Prompt_FallsBackToDefault(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	r := NewResponder(mockCatalog{}, NewGenerateFunc(llm, driven.GenerateOptions{}))
	r.SetPromptStore(&mockPromptStore{})

	r.Compose(context.Background(), "golpe", scoredDocs("/a"))

	require.Len(t, llm.prompts, 1)
	assert.Equal(t, r.prompt("golpe", scoredDocs("/a")), llm.prompts[0])
	assert.Contains(t, llm.prompts[0], "golpe")
}

func TestResponder_Prompt_LimitsDocuments(t *testing.T) {
	r := NewResponder(mockCatalog{}, nil)

	prompt := r.prompt("q", scoredDocs("/1", "/2", "/3", "/4", "/5", "/6", "/7", "/8"))

	assert.Contains(t, prompt, "URL: /6")
	assert.NotContains(t, prompt, "URL: /7")
}
