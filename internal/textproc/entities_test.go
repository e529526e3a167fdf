package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

func TestExactExtractor(t *testing.T) {
	x := NewExactExtractor(DefaultDocTypes())

	t.Run("photos and year", func(t *testing.T) {
		ents := x.Extract("fotos de 1975")
		assert.Equal(t, []int{1975}, ents.Years)
		assert.Equal(t, []string{"fotografías"}, ents.DocTypes)
		assert.Empty(t, ents.Topics)
		assert.True(t, ents.HasNewInfo)
	})

	t.Run("topic after sobre", func(t *testing.T) {
		ents := x.Extract("Documentos sobre derechos humanos")
		assert.Equal(t, []string{"derechos humanos"}, ents.Topics)
		assert.Equal(t, []string{"reportes"}, ents.DocTypes)
	})

	t.Run("years are sorted and unique", func(t *testing.T) {
		ents := x.Extract("1988, 1973 y otra vez 1988")
		assert.Equal(t, []int{1973, 1988}, ents.Years)
	})

	t.Run("nothing found", func(t *testing.T) {
		ents := x.Extract("hola")
		assert.Empty(t, ents.Years)
		assert.Empty(t, ents.DocTypes)
		assert.Empty(t, ents.Topics)
		assert.False(t, ents.HasNewInfo)
	})

	t.Run("out of range years ignored", func(t *testing.T) {
		ents := x.Extract("en 1850 y 2150")
		assert.Empty(t, ents.Years)
	})
}

func TestFuzzyExtractor(t *testing.T) {
	x := NewFuzzyExtractor(DefaultDocTypes(), DefaultCommonTopics(), nil, 80)

	ents := x.Extract("fotogarfia de la dictdura")

	assert.Equal(t, []string{"fotografías"}, ents.DocTypes)
	assert.Contains(t, ents.Topics, "dictadura")
	assert.True(t, ents.HasNewInfo)

	require.Contains(t, ents.FuzzyMatches, "fotografías")
	assert.Equal(t, domain.FuzzyMatch{Detected: "fotogarfia", Matched: "fotografia", Score: 80},
		ents.FuzzyMatches["fotografías"][0])

	require.Contains(t, ents.FuzzyMatches, "dictadura")
	assert.Equal(t, "dictdura", ents.FuzzyMatches["dictadura"][0].Detected)
}

func TestFuzzyExtractor_ExactTopicNotRecorded(t *testing.T) {
	x := NewFuzzyExtractor(nil, DefaultCommonTopics(), nil, 80)

	ents := x.Extract("la guerra")

	assert.Contains(t, ents.Topics, "guerra")
	assert.NotContains(t, ents.FuzzyMatches, "guerra")
}

func TestFuzzyExtractor_CustomSimilarity(t *testing.T) {
	never := func(_, _ string) int { return 0 }
	x := NewFuzzyExtractor(DefaultDocTypes(), DefaultCommonTopics(), never, 80)

	ents := x.Extract("fotografia dictadura")

	assert.Empty(t, ents.DocTypes)
	assert.Empty(t, ents.FuzzyMatches)
}

func TestDateRangeExtractor(t *testing.T) {
	x := NewDateRangeExtractor(NewExactExtractor(DefaultDocTypes()), DefaultPeriods())

	tests := []struct {
		name       string
		input      string
		wantRange  *domain.DateRange
		wantPeriod string
		wantYears  []int
	}{
		{
			name:       "period",
			input:      "documentos de la dictadura",
			wantRange:  &domain.DateRange{Start: 1973, End: 1990},
			wantPeriod: "dictadura",
			wantYears:  yearsIn(domain.DateRange{Start: 1973, End: 1990}),
		},
		{
			name:       "period keeps explicit year",
			input:      "la dictadura en 1975",
			wantRange:  &domain.DateRange{Start: 1973, End: 1990},
			wantPeriod: "dictadura",
			wantYears:  []int{1975},
		},
		{
			name:       "longer phrase first",
			input:      "el golpe de estado",
			wantRange:  &domain.DateRange{Start: 1973, End: 1973},
			wantPeriod: "golpe de estado",
			wantYears:  []int{1973},
		},
		{
			name:      "decade with accents",
			input:     "fotos de los años 80",
			wantRange: &domain.DateRange{Start: 1980, End: 1989},
			wantYears: yearsIn(domain.DateRange{Start: 1980, End: 1989}),
		},
		{
			name:      "decade word",
			input:     "la década de los 70",
			wantRange: &domain.DateRange{Start: 1970, End: 1979},
			wantYears: yearsIn(domain.DateRange{Start: 1970, End: 1979}),
		},
		{
			name:      "decade overrides period name",
			input:     "dictadura en la década de los 80",
			wantRange: &domain.DateRange{Start: 1980, End: 1989},
			wantYears: yearsIn(domain.DateRange{Start: 1980, End: 1989}),
		},
		{
			name:      "four digit year is not a decade",
			input:     "los años 1980",
			wantYears: []int{1980},
		},
		{
			name:      "explicit range wins and is ordered",
			input:     "cartas de la dictadura entre 1985 y 1980",
			wantRange: &domain.DateRange{Start: 1980, End: 1985},
			wantYears: []int{1980, 1981, 1982, 1983, 1984, 1985},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := x.Extract(tt.input)
			assert.Equal(t, tt.wantRange, ents.DateRange)
			assert.Equal(t, tt.wantPeriod, ents.PeriodName)
			assert.Equal(t, tt.wantYears, ents.Years)
			assert.True(t, ents.HasNewInfo)
		})
	}
}

func TestDateRangeExtractor_NilBase(t *testing.T) {
	x := NewDateRangeExtractor(nil, DefaultPeriods())

	ents := x.Extract("plebiscito de 1988")

	assert.Equal(t, []int{1988}, ents.Years)
	require.NotNil(t, ents.DateRange)
	assert.Equal(t, 1988, ents.DateRange.Start)
}

func TestDateRangeExtractor_InvalidPeriodsDropped(t *testing.T) {
	x := NewDateRangeExtractor(nil, []domain.PeriodEntry{
		{Phrase: "al reves", Start: 1990, End: 1980},
		{Phrase: "  ", Start: 1970, End: 1971},
	})

	ents := x.Extract("al reves")

	assert.Nil(t, ents.DateRange)
	assert.False(t, ents.HasNewInfo)
}

func TestMerge(t *testing.T) {
	x := Merge(
		NewExactExtractor(DefaultDocTypes()),
		nil,
		NewDateRangeExtractor(NewFuzzyExtractor(DefaultDocTypes(), DefaultCommonTopics(), nil, 80), DefaultPeriods()),
	)

	ents := x.Extract("fotos de la dictdura de 1975")

	assert.Equal(t, []int{1975}, ents.Years)
	assert.Equal(t, []string{"fotografías"}, ents.DocTypes)
	assert.Contains(t, ents.Topics, "dictadura")
	assert.True(t, ents.HasNewInfo)
}

func TestNewDefaultExtractor(t *testing.T) {
	x := NewDefaultExtractor(DefaultTables(), nil, 80)

	ents := x.Extract("fotos de la dictadura")

	require.NotNil(t, ents.DateRange)
	assert.Equal(t, domain.DateRange{Start: 1973, End: 1990}, *ents.DateRange)
	assert.Equal(t, "dictadura", ents.PeriodName)
	assert.Contains(t, ents.DocTypes, "fotografías")
	assert.True(t, ents.HasNewInfo)

	assert.False(t, x.Extract("ok").HasNewInfo)
}

func TestExtractorFunc(t *testing.T) {
	var x Extractor = ExtractorFunc(func(string) domain.Entities {
		return domain.Entities{Years: []int{1988}, HasNewInfo: true}
	})
	assert.Equal(t, []int{1988}, x.Extract("plebiscito").Years)
}

func TestEntities_RefinedQuery(t *testing.T) {
	x := NewExactExtractor(DefaultDocTypes())

	ents := x.Extract("no, busco algo de 1980")
	assert.Contains(t, ents.RefinedQuery("fallback"), "1980")

	assert.Equal(t, "fallback", domain.Entities{}.RefinedQuery("fallback"))
}
