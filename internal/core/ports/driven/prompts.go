package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswer asks the model to present search results to the user.
	// The template references the user query as {query} and the numbered
	// document listing as {documents}. Any other text, % included, is literal.
	PromptAnswer = "answer"
)

// Placeholders substituted into the PromptAnswer template.
const (
	PlaceholderQuery     = "{query}"
	PlaceholderDocuments = "{documents}"
)

// DefaultAnswerPrompt is the built-in PromptAnswer template.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultAnswerPrompt = `Eres un asistente amigable del Archivo Patrimonial UAH, especializado en documentos históricos de Chile.

DOCUMENTOS ENCONTRADOS:
{documents}
CONSULTA DEL USUARIO: "{query}"

INSTRUCCIONES:
- Presenta los documentos encontrados de forma clara y organizada
- Incluye enlaces markdown: [Título del documento](URL)
- Explica brevemente la relevancia de cada documento para la consulta
- Proporciona contexto histórico cuando sea pertinente
- Usa un tono profesional pero cercano y amigable
- Usa emojis ocasionales para hacer la respuesta más visual
- Al final, invita al usuario a seguir explorando o hacer más preguntas

IMPORTANTE:
- Menciona que los enlaces llevan directamente a los documentos en el archivo
- Si algún documento es especialmente relevante, destácalo

Responde de forma natural, útil y educativa:`
