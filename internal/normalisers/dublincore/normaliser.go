// Package dublincore normalises JSON exports of Dublin Core archive records.
//
// A record is a JSON object with a "title" and an "href" plus any of the
// repeated fields "dc:subject", "dc:creator", "dc:coverage" and "dc:date".
// Repeated fields may hold a single value or an array.
package dublincore

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// Record is one raw archive record as decoded from JSON.
type Record map[string]any

// Field names, with the alternatives accepted for title and href.
const (
	FieldTitle      = "title"
	FieldDCTitle    = "dc:title"
	FieldHref       = "href"
	FieldIdentifier = "dc:identifier"
	FieldSubject    = "dc:subject"
	FieldCreator    = "dc:creator"
	FieldCoverage   = "dc:coverage"
	FieldDate       = "dc:date"
)

// Normaliser converts raw records into documents.
type Normaliser struct{}

// New creates a new Dublin Core normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// ReadRecords decodes a JSON array of records.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// Normalise converts a record to a document. Repeated fields are trimmed,
// blank values are dropped and duplicates removed, keeping first occurrence.
// Returns domain.ErrInvalidRecord if the title or href is missing.
func (n *Normaliser) Normalise(rec Record) (domain.Document, error) {
	if rec == nil {
		return domain.Document{}, domain.ErrInvalidRecord
	}

	title := first(rec, FieldTitle, FieldDCTitle)
	href := first(rec, FieldHref, FieldIdentifier)
	if title == "" {
		return domain.Document{}, fmt.Errorf("%w: missing title", domain.ErrInvalidRecord)
	}
	if href == "" {
		return domain.Document{}, fmt.Errorf("%w: missing href for %q", domain.ErrInvalidRecord, title)
	}

	return domain.Document{
		Title:     title,
		Href:      href,
		Subjects:  values(rec[FieldSubject]),
		Creators:  values(rec[FieldCreator]),
		Coverages: values(rec[FieldCoverage]),
		Dates:     values(rec[FieldDate]),
	}, nil
}

// first returns the first non-blank single value among keys.
func first(rec Record, keys ...string) string {
	for _, k := range keys {
		if vs := values(rec[k]); len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// values flattens a JSON value into trimmed, distinct strings.
func values(v any) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	switch x := v.(type) {
	case []any:
		for _, item := range x {
			if s, ok := scalar(item); ok {
				add(s)
			}
		}
	default:
		if s, ok := scalar(x); ok {
			add(s)
		}
	}
	return out
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}
