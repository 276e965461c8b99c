package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column keys of the printed card spreadsheet export, after NormalizeName.
const (
	colName          = "nombre"
	colCost          = "coste"
	colText          = "texto"
	colExpansion     = "expansion"
	colRarity        = "rareza"
	colType          = "tipo"
	colSupertype     = "supertipo"
	colSubtype1      = "subtipo 1"
	colSubtype2      = "subtipo 2"
	colClarification = "aclaraciones"
	colStrength      = "fuerza"
	colToughness     = "resistencia"
)

var requiredColumns = []string{colName, colCost, colType}

// DecodeCSV reads the spreadsheet export. Columns are located by header so
// their order does not matter; keywords are picked out of the rules text.
func DecodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("catalog csv has no data rows")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[NormalizeName(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("catalog csv: missing column %q", col)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		field := func(col string) string {
			if i, ok := index[col]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		// Header is line 1.
		line := n + 2
		cost, err := strconv.Atoi(field(colCost))
		if err != nil {
			return nil, fmt.Errorf("catalog csv line %d: cost: %w", line, err)
		}
		rec := Record{
			Name:          field(colName),
			Cost:          cost,
			Type:          field(colType),
			Text:          field(colText),
			Supertype:     field(colSupertype),
			Expansion:     field(colExpansion),
			Rarity:        field(colRarity),
			Clarification: field(colClarification),
			Keywords:      scanKeywords(field(colText)),
		}
		for _, col := range []string{colSubtype1, colSubtype2} {
			if sub := field(col); sub != "" {
				rec.Subtypes = append(rec.Subtypes, sub)
			}
		}
		if rec.Strength, err = optionalInt(field(colStrength)); err != nil {
			return nil, fmt.Errorf("catalog csv line %d: strength: %w", line, err)
		}
		if rec.Toughness, err = optionalInt(field(colToughness)); err != nil {
			return nil, fmt.Errorf("catalog csv line %d: toughness: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CSVSource reads records from a spreadsheet export on every call.
type CSVSource struct {
	Path string
}

// Records implements Source.
func (s CSVSource) Records(_ context.Context) ([]Record, error) {
	fh, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer fh.Close()
	return DecodeCSV(fh)
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
