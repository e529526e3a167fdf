package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// DefaultPromptDocuments is how many documents are described to the model.
const DefaultPromptDocuments = 6

const (
	listingHeader         = "📚 **He encontrado estos documentos relevantes:**\n\n"
	degradedListingHeader = "📚 **Encontré estos documentos relevantes:**\n\n"
	degradedListingNote   = "\n💡 **Nota:** Estoy experimentando limitaciones técnicas, " +
		"pero aquí están los documentos que coinciden con tu búsqueda."
)

// Responder composes the text of a reply. Canned replies come from the
// response catalog; search results are presented by the LLM when one is
// configured, and as a Markdown listing otherwise.
type Responder struct {
	catalog    driven.ResponseCatalog
	generate   GenerateFunc
	prompts    driven.PromptStore
	outOfScope func(query string) bool
	now        func() time.Time
	maxDocs    int
}

// NewResponder creates a responder. generate is optional.
func NewResponder(catalog driven.ResponseCatalog, generate GenerateFunc) *Responder {
	return &Responder{
		catalog:  catalog,
		generate: generate,
		now:      time.Now,
		maxDocs:  DefaultPromptDocuments,
	}
}

// SetPromptStore sets the store for the answer prompt template.
// If not set, driven.DefaultAnswerPrompt is used.
func (r *Responder) SetPromptStore(store driven.PromptStore) {
	r.prompts = store
}

// SetScopeCheck sets the predicate that marks a query as out of scope.
func (r *Responder) SetScopeCheck(fn func(query string) bool) {
	r.outOfScope = fn
}

// SetClock overrides the time source used for time-of-day greetings.
func (r *Responder) SetClock(now func() time.Time) {
	r.now = now
}

// Canned returns the catalog reply for kind.
func (r *Responder) Canned(kind domain.ReplyKind) string {
	if r.catalog == nil {
		return ""
	}
	return r.catalog.Reply(kind.String(), r.now())
}

// Compose presents search results. It checks, in order: an out-of-scope
// query, an empty result, a generated reply and finally the templated listing.
func (r *Responder) Compose(ctx context.Context, query string, docs []domain.ScoredDocument) (domain.ReplyKind, string) {
	if r.outOfScope != nil && r.outOfScope(query) {
		return domain.ReplyOutOfScope, r.Canned(domain.ReplyOutOfScope)
	}
	if len(docs) == 0 {
		return domain.ReplyNoResults, r.Canned(domain.ReplyNoResults)
	}
	if r.generate == nil {
		return domain.ReplyResults, Listing(docs, listingHeader)
	}

	if text := r.generate(ctx, r.prompt(query, docs)); text != "" {
		return domain.ReplyResults, text
	}
	logger.Debug("Generation returned nothing, using listing")
	return domain.ReplyResults, Listing(docs, degradedListingHeader) + degradedListingNote
}

func (r *Responder) prompt(query string, docs []domain.ScoredDocument) string {
	template := driven.DefaultAnswerPrompt
	if r.prompts != nil {
		t, err := r.prompts.Load(driven.PromptAnswer)
		switch {
		case err != nil:
			logger.Warn("load answer prompt: %v", err)
		case !strings.Contains(t, driven.PlaceholderDocuments):
			logger.Warn("answer prompt has no %s placeholder, using the built-in prompt",
				driven.PlaceholderDocuments)
		default:
			template = t
		}
	}
	if len(docs) > r.maxDocs {
		docs = docs[:r.maxDocs]
	}
	return strings.NewReplacer(
		driven.PlaceholderQuery, query,
		driven.PlaceholderDocuments, describe(docs),
	).Replace(template)
}

// describe renders documents for the prompt.
func describe(docs []domain.ScoredDocument) string {
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "%d. %s (relevancia: %.2f)\n", i+1, doc.Title, doc.Score)
		if len(doc.Subjects) > 0 {
			fmt.Fprintf(&b, "   Temas: %s\n", strings.Join(doc.Subjects, ", "))
		}
		if len(doc.Dates) > 0 {
			fmt.Fprintf(&b, "   Fecha: %s\n", doc.Dates[0])
		}
		fmt.Fprintf(&b, "   URL: %s\n\n", doc.Href)
	}
	return b.String()
}

// Listing renders documents as a numbered Markdown list under header.
func Listing(docs []domain.ScoredDocument, header string) string {
	var b strings.Builder
	b.WriteString(header)
	for i, doc := range docs {
		fmt.Fprintf(&b, "%d. **%s**\n   🔗 [Ver documento](%s)\n\n", i+1, doc.Title, doc.Href)
	}
	return b.String()
}
