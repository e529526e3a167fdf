package ranking

import (
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/textproc"
)

func testCorpus() []domain.Document {
	return []domain.Document{
		{
			Title:    "Carta de Aylwin a ministro",
			Href:     "/a1",
			Subjects: []string{"Correspondencia", "Transición"},
			Creators: []string{"Aylwin, Patricio"},
		},
		{
			Title:     "Fotografías del plebiscito de 1988",
			Href:      "/p1",
			Subjects:  []string{"Plebiscito", "Campaña del No"},
			Coverages: []string{"Santiago"},
			Dates:     []string{"1988"},
		},
		{
			Title:    "Informe sobre derechos humanos",
			Href:     "/r1",
			Subjects: []string{"Derechos humanos", "Dictadura militar"},
			Dates:    []string{"1978"},
		},
		{
			Title:    "Acta del Consejo de Gabinete",
			Href:     "/g1",
			Subjects: []string{"Gobierno"},
			Dates:    []string{"1990"},
		},
	}
}

func testNormalizer() *textproc.Normalizer {
	return textproc.NewNormalizer(textproc.DefaultAbbreviations())
}

func hrefsOf(results []domain.ScoredDocument) []string {
	return domain.Hrefs(results)
}

func assertSorted(t interface {
	Helper()
	Errorf(string, ...any)
}, results []domain.ScoredDocument) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
}
