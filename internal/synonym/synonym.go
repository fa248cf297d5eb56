// Package synonym resolves cross-language field-name equivalences. Source
// extracts frequently carry Dutch business terms while target catalogs use
// English (or German/Spanish) spellings; the table below encodes the pairs
// seen in practice so "klant" can match "customer" without fuzzy scoring.
package synonym

import "fieldmap/internal/fuzzy"

// table maps a canonical term to its known equivalents. All lookups run on
// normalized forms, so entries may be written in natural spelling.
var table = map[string][]string{
	// Common business terms.
	"klant":        {"customer", "client", "kunde"},
	"naam":         {"name", "bezeichnung"},
	"adres":        {"address", "adresse"},
	"land":         {"country", "pais"},
	"bedrag":       {"amount", "betrag", "montant"},
	"datum":        {"date", "fecha"},
	"nummer":       {"number", "numero"},
	"code":         {"kode"},
	"beschrijving": {"description", "beschreibung", "descripcion"},
	"status":       {"staat"},
	"actief":       {"active", "aktiv"},
	"blokkeren":    {"block", "blockieren"},
	"vlag":         {"flag", "flagge"},
	"controle":     {"control", "kontrolle"},
	"indicatie":    {"indicator", "indikator"},

	// Banking terms.
	"bank":          {"banco"},
	"rekening":      {"account", "konto", "cuenta"},
	"saldo":         {"balance"},
	"transactie":    {"transaction", "transaktion"},
	"betaling":      {"payment", "zahlung", "pago"},
	"overboekingen": {"transfer", "uberweisung"},

	// Technical terms.
	"sleutel":      {"key", "schlussel", "clave"},
	"waarde":       {"value", "wert", "valor"},
	"type":         {"typ", "tipo"},
	"referentie":   {"reference", "referenz", "referencia"},
	"versie":       {"version"},
	"configuratie": {"configuration", "konfiguration"},
}

// index maps every normalized term (keys and values alike) to its normalized
// equivalence set, built once at package init.
var index = buildIndex()

func buildIndex() map[string][]string {
	idx := make(map[string][]string, len(table)*3)
	for key, values := range table {
		group := make([]string, 0, len(values)+1)
		group = append(group, fuzzy.Normalize(key))
		for _, v := range values {
			group = append(group, fuzzy.Normalize(v))
		}
		for _, term := range group {
			others := make([]string, 0, len(group)-1)
			for _, o := range group {
				if o != term {
					others = append(others, o)
				}
			}
			idx[term] = others
		}
	}
	return idx
}

// Lookup returns the normalized synonyms known for term, or nil when the term
// is not in the table.
func Lookup(term string) []string {
	return index[fuzzy.Normalize(term)]
}

// Match reports whether a and b are the same term after normalization or are
// known synonyms of each other.
func Match(a, b string) bool {
	na, nb := fuzzy.Normalize(a), fuzzy.Normalize(b)
	if na == nb {
		return true
	}
	for _, s := range index[na] {
		if s == nb {
			return true
		}
	}
	return false
}
