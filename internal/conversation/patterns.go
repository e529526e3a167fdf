package conversation

import (
	"fmt"
	"regexp"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// DefaultIntentTables returns the built-in classifier and follow-up patterns.
func DefaultIntentTables() domain.IntentTables {
	return domain.IntentTables{
		Conversation: []domain.PatternGroup{
			{Name: string(domain.ConversationGreeting), Patterns: []string{
				`^(hola|hello|hi|hey|ola)$`,
				`^(hola|hello|hi|hey)\s*$`,
				`^buen(os|as)?\s+(día|dia|días|dias|tarde|tardes|noche|noches)$`,
				`^(qué|que)\s+tal$`,
				`^cómo\s+(estás|estas|está|esta)$`,
				`^saludos$`,
				`^buenas$`,
			}},
			{Name: string(domain.ConversationFarewell), Patterns: []string{
				`\b(adiós|adios|chao|chau|bye|hasta\s+luego|nos\s+vemos)\b`,
				`\bgracias?\s+(por\s+todo|y\s+adiós|y\s+adios)\b`,
				`^(chao|adios|adiós|bye)$`,
			}},
			{Name: string(domain.ConversationGratitude), Patterns: []string{
				`^(gracias|muchas\s+gracias|mil\s+gracias)$`,
				`^(gracias|thank\s+you)$`,
				`^(excelente|genial|perfecto|muy\s+bien)$`,
				`^te\s+agradezco$`,
			}},
			{Name: string(domain.ConversationHelp), Patterns: []string{
				`\b(ayuda|ayudar|ayúdame|help)\b`,
				`^(qué|que)\s+(puedes?|hace|ofrece|tiene)$`,
				`^cómo\s+(funciona|usar|buscar|te\s+uso)$`,
				`^(información|info|explica|cuéntame)\s+(sobre|del|de)?\s*(bot|chatbot|ti)?$`,
				`^qué\s+es\s+esto$`,
				`^para\s+qué\s+sirve`,
			}},
			{Name: string(domain.ConversationSmalltalk), Patterns: []string{
				`^(cómo|como)\s+(te\s+llamas?|eres|funcionas)$`,
				`^(quién|quien)\s+eres$`,
				`^(qué|que)\s+(eres|haces)$`,
				`^estás\s+(bien|ahí)$`,
				`^eres\s+(un\s+)?(bot|robot|ia|inteligencia)$`,
			}},
		},
		CasualWords: []string{"ok", "vale", "ya", "si", "sí", "no", "bien", "mal", "bueno"},
		Unsatisfied: []string{
			`\b(no encuentro|no está|falta|no sirve|no es|otro|diferente|otra cosa)\b`,
			`\b(no\s+son|no\s+me|estos\s+no|eso\s+no)\b`,
			`\b(en realidad|más bien|en lugar de|debería|preferir)\b`,
			`\bno\s+(es|está|me|sirve)`,
			`\b(hm|meh|nah|nope)\b`,
			`\b(espera|wait|no|eso no)\b`,
		},
		Satisfied: []string{
			`\b(gracias|thank|perfecto|excelente|genial|justo|esto es|exacto|bien|ok)\b`,
			`\bme sirve\b`,
			`\b(listo|done|bueno)\b`,
		},
		SearchSignals: []string{
			`\b(busco|buscaba|necesito|quiero|me gustaría|dime|muestra|encuentra|busca)\b`,
			`\b(información|info|documentos|fotografías|fotos|archivos|reportes)\b`,
			`\b(sobre|relacionado\s+con|acerca\s+de|de)\s+`,
			`\b(guerra|dictadura|militares|gobierno|partido|organización|persona)\b`,
			`\d{4}(?:\s*(?:-|a)\s*\d{4})?`,
		},
		Greetings: []string{
			`^(hola|hello|hi|hey|ola)\s*,?\s*`,
			`^(buenos|buenas)\s+(días|dia|tardes|tarde|noches|noche)\s*,?\s*`,
			`^saludos\s*,?\s*`,
			`^(qué|que)\s+tal\s*,?\s*`,
			`^solo\s+quería\s+saludar\s*,?\s*`,
		},
	}
}

// WithDefaultIntent fills every empty section of t from DefaultIntentTables.
func WithDefaultIntent(t domain.IntentTables) domain.IntentTables {
	d := DefaultIntentTables()
	if len(t.Conversation) == 0 {
		t.Conversation = d.Conversation
	}
	if len(t.CasualWords) == 0 {
		t.CasualWords = d.CasualWords
	}
	if len(t.Unsatisfied) == 0 {
		t.Unsatisfied = d.Unsatisfied
	}
	if len(t.Satisfied) == 0 {
		t.Satisfied = d.Satisfied
	}
	if len(t.SearchSignals) == 0 {
		t.SearchSignals = d.SearchSignals
	}
	if len(t.Greetings) == 0 {
		t.Greetings = d.Greetings
	}
	return t
}

// compile builds case-sensitive patterns from diacritic-free sources.
func compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(textproc.StripDiacritics(p))
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w: %w", p, domain.ErrInvalidTables, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
