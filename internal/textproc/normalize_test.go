package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

func newDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultAbbreviations())
}

func TestNormalize(t *testing.T) {
	n := newDefaultNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"blank", "   \t ", ""},
		{"lowercase and accents", "Política  Económica", "politica economica"},
		{"plural es", "Canciones", "cancion"},
		{"plural s", "cartas", "carta"},
		{"double s kept", "congreso express", "congreso express"},
		{"short words kept", "los mas", "los mas"},
		{"two digit year", "golpe del 73", "golpe estado 1973 del 1973"},
		{"abbreviation", "DDHH en chile", "derecho humano en chile"},
		{"dotted abbreviation", "dd.hh", "derecho humano"},
		{"spaced abbreviation", "dd hh", "derecho humano"},
		{"person", "carta de aylwin", "carta de patricio aylwin"},
		{"photos", "fotos de 1975", "fotografia de 1975"},
		{"images", "imágenes", "fotografia"},
		{"already expanded", "patricio aylwin", "patricio aylwin"},
		{"no partial token", "pcs y pinochetismo", "pcs y pinochetismo"},
		{"question marks", "¿golpe de 73?", "¿golpe estado 1973 de 1973?"},
		{"trailing comma", "fotos, cartas", "fotografia, carta"},
		{"abbreviation with question", "ddhh?", "derecho humano?"},
		{"person with question", "carta de aylwin?", "carta de patricio aylwin?"},
		{"dotted abbreviation with period", "dd.hh.", "derecho humano."},
		{"punctuation splits key", "dd, hh", "dd, hh"},
		{"lone punctuation", "cartas - fotos", "carta - fotografia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newDefaultNormalizer()

	inputs := []string{
		"carta de aylwin",
		"Clases",
		"clases de historia",
		"golpe del 73",
		"pinochet y la dicta",
		"fotos, imágenes y pics de los 80",
		"ddhh dd.hh dd hh",
		"mir pc ps pdc",
		"Derechos Humanos en la Vicaría",
		"ÁRBOLES     ñandúes",
		"allende aylwin pinochet golpe 90",
		"¿golpe de 73?",
		"fotos, cartas",
		"ddhh? (dd.hh.)",
		"«Aylwin», pinochet...",
		"",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestNormalize_NilNormalizer(t *testing.T) {
	var n *Normalizer
	assert.Equal(t, "carta", n.Normalize("Cartas"))
}

func TestNormalize_EmptyEntriesIgnored(t *testing.T) {
	n := NewNormalizer([]domain.AbbreviationEntry{
		{Keys: []string{"x"}, Expansion: "  "},
		{Keys: []string{" "}, Expansion: "nada"},
	})
	assert.Equal(t, "x", n.Normalize("x"))
}

func TestStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"clases", "cla"},
		{"cla", "cla"},
		{"cartas", "carta"},
		{"mes", "mes"},
		{"gas", "gas"},
		{"paises", "pai"},
		{"express", "express"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stem(tt.in), "Stem(%q)", tt.in)
	}
}
