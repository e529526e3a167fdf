package textproc

import "github.com/custodia-labs/archivo/internal/core/domain"

// DefaultTables returns the built-in tables for the text layer. The intent
// section is left empty; conversation.DefaultIntentTables provides it.
func DefaultTables() domain.Tables {
	return domain.Tables{
		Abbreviations: DefaultAbbreviations(),
		Synonyms:      DefaultSynonyms(),
		Periods:       DefaultPeriods(),
		DocTypes:      DefaultDocTypes(),
		CommonTopics:  DefaultCommonTopics(),
		OutOfScope:    DefaultOutOfScope(),
	}
}

// DefaultAbbreviations returns the normalizer expansion table. Order matters.
func DefaultAbbreviations() []domain.AbbreviationEntry {
	return []domain.AbbreviationEntry{
		{Keys: []string{"dicta"}, Expansion: "dictadura militar"},
		{Keys: []string{"ddhh", "dd.hh", "dd hh"}, Expansion: "derechos humanos"},
		{Keys: []string{"mir"}, Expansion: "movimiento izquierda revolucionaria"},
		{Keys: []string{"pc"}, Expansion: "partido comunista"},
		{Keys: []string{"ps"}, Expansion: "partido socialista"},
		{Keys: []string{"pdc"}, Expansion: "partido democrata cristiano"},
		{Keys: []string{"golpe"}, Expansion: "golpe estado 1973"},
		{Keys: []string{"pinochet"}, Expansion: "dictadura militar pinochet"},
		{Keys: []string{"allende"}, Expansion: "salvador allende"},
		{Keys: []string{"aylwin"}, Expansion: "patricio aylwin"},
		{Keys: []string{"73"}, Expansion: "1973"},
		{Keys: []string{"74"}, Expansion: "1974"},
		{Keys: []string{"75"}, Expansion: "1975"},
		{Keys: []string{"76"}, Expansion: "1976"},
		{Keys: []string{"80"}, Expansion: "1980"},
		{Keys: []string{"90"}, Expansion: "1990"},
		{Keys: []string{"fotos", "imagenes", "pics"}, Expansion: "fotografias"},
	}
}

// DefaultSynonyms returns the synonym table used for query expansion.
func DefaultSynonyms() []domain.SynonymEntry {
	return []domain.SynonymEntry{
		// Document types.
		{Term: "fotos", Synonyms: []string{"fotografías", "imágenes", "retratos", "visuales"}},
		{Term: "foto", Synonyms: []string{"fotografía", "imagen", "retrato"}},
		{Term: "cartas", Synonyms: []string{"correspondencia", "misivas", "escritos", "epístolas"}},
		{Term: "carta", Synonyms: []string{"correspondencia", "misiva", "escrito"}},
		{Term: "videos", Synonyms: []string{"grabaciones", "audiovisuales", "filmaciones"}},
		{Term: "video", Synonyms: []string{"grabación", "audiovisual", "filmación"}},
		{Term: "documentos", Synonyms: []string{"archivos", "registros", "expedientes"}},
		{Term: "documento", Synonyms: []string{"archivo", "registro", "expediente"}},
		{Term: "informes", Synonyms: []string{"reportes", "memorandos", "notas"}},
		{Term: "informe", Synonyms: []string{"reporte", "memorando", "nota"}},
		{Term: "testimonios", Synonyms: []string{"relatos", "declaraciones", "testigos"}},
		{Term: "afiches", Synonyms: []string{"carteles", "propaganda", "panfletos"}},
		{Term: "comunicado", Synonyms: []string{"declaración pública", "boletín"}},

		// Historical context.
		{Term: "dictadura", Synonyms: []string{"régimen militar", "gobierno militar", "pinochet"}},
		{Term: "golpe", Synonyms: []string{"golpe de estado", "11 de septiembre", "pronunciamiento"}},
		{Term: "derechos humanos", Synonyms: []string{"ddhh", "violaciones", "represión", "víctimas"}},
		{Term: "plebiscito", Synonyms: []string{"consulta", "referéndum", "votación 1988"}},
		{Term: "transición", Synonyms: []string{"retorno a la democracia", "democratización"}},
		{Term: "exilio", Synonyms: []string{"exiliados", "destierro", "retorno"}},
		{Term: "desaparecidos", Synonyms: []string{"detenidos desaparecidos", "víctimas"}},

		// People.
		{Term: "aylwin", Synonyms: []string{"patricio aylwin", "presidente aylwin"}},
		{Term: "pinochet", Synonyms: []string{"augusto pinochet", "general pinochet"}},
		{Term: "allende", Synonyms: []string{"salvador allende", "presidente allende"}},

		// Institutions.
		{Term: "universidad", Synonyms: []string{"uah", "alberto hurtado"}},
		{Term: "gobierno", Synonyms: []string{"ejecutivo", "administración", "estado"}},
		{Term: "congreso", Synonyms: []string{"parlamento", "cámara", "senado"}},
		{Term: "vicaría", Synonyms: []string{"vicaría de la solidaridad", "iglesia"}},
		{Term: "sindicato", Synonyms: []string{"movimiento obrero", "trabajadores", "gremio"}},
	}
}

// DefaultPeriods returns historical periods of recent Chilean history.
// More specific phrases come first because the first match wins.
func DefaultPeriods() []domain.PeriodEntry {
	return []domain.PeriodEntry{
		{Phrase: "gobierno de pinochet", Start: 1973, End: 1990},
		{Phrase: "dictadura militar", Start: 1973, End: 1990},
		{Phrase: "dictadura", Start: 1973, End: 1990},
		{Phrase: "regimen militar", Start: 1973, End: 1990},
		{Phrase: "gobierno de aylwin", Start: 1990, End: 1994},
		{Phrase: "transicion", Start: 1990, End: 1994},
		{Phrase: "unidad popular", Start: 1970, End: 1973},
		{Phrase: "gobierno de allende", Start: 1970, End: 1973},
		{Phrase: "golpe de estado", Start: 1973, End: 1973},
		{Phrase: "golpe", Start: 1973, End: 1973},
		{Phrase: "11 de septiembre", Start: 1973, End: 1973},
		{Phrase: "plebiscito", Start: 1988, End: 1988},
		{Phrase: "campana del no", Start: 1988, End: 1988},
	}
}

// DefaultDocTypes returns the document categories and their keywords.
func DefaultDocTypes() []domain.DocTypeEntry {
	return []domain.DocTypeEntry{
		{Category: "testimonios", Keywords: []string{"testimonio", "testigo", "declaración", "relato"}},
		{Category: "fotografías", Keywords: []string{"foto", "fotografía", "imagen", "pic", "visual"}},
		{Category: "reportes", Keywords: []string{"reporte", "informe", "report", "documento"}},
		{Category: "cartas", Keywords: []string{"carta", "carta abierta", "missiva"}},
		{Category: "actas", Keywords: []string{"acta", "registro", "protocolo"}},
		{Category: "comunicados", Keywords: []string{"comunicado", "boletín", "aviso"}},
	}
}

// DefaultCommonTopics returns topics the fuzzy extractor recognises despite typos.
func DefaultCommonTopics() []string {
	return []string{
		"guerra", "dictadura", "ddhh", "derechos", "militares",
		"gobierno", "política", "elecciones", "partido", "persona",
	}
}

// DefaultOutOfScope returns administrative keywords the archive does not
// answer (enrolment, fees, timetables and similar).
func DefaultOutOfScope() []string {
	return []string{
		"matricula", "inscripcion", "horario", "clases", "notas", "calificaciones",
		"malla", "curricular", "admision", "postular", "postulacion", "arancel",
		"becas", "certificado", "financiamiento", "pago", "cuota", "profesor",
		"docente", "contacto", "email", "telefono", "carrera", "postgrado",
		"magister",
	}
}

// WithDefaults fills every empty section of t from DefaultTables.
func WithDefaults(t domain.Tables) domain.Tables {
	d := DefaultTables()
	if len(t.Abbreviations) == 0 {
		t.Abbreviations = d.Abbreviations
	}
	if len(t.Synonyms) == 0 {
		t.Synonyms = d.Synonyms
	}
	if len(t.Periods) == 0 {
		t.Periods = d.Periods
	}
	if len(t.DocTypes) == 0 {
		t.DocTypes = d.DocTypes
	}
	if len(t.CommonTopics) == 0 {
		t.CommonTopics = d.CommonTopics
	}
	if len(t.OutOfScope) == 0 {
		t.OutOfScope = d.OutOfScope
	}
	return t
}
