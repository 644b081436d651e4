package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var candidateDelimiters = []rune{',', '\t', '|', ';'}

// loadOptions keep every column as raw strings: no type detection (zip codes
// keep leading zeros) and no NaN substitution.
func loadOptions(extra ...dataframe.LoadOption) []dataframe.LoadOption {
	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	}
	return append(opts, extra...)
}

func parseDelimited(content []byte, delim rune) (*Result, error) {
	if delim == 0 {
		delim = ','
	}
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	df := dataframe.LoadRecords(squareRecords(records), loadOptions()...)
	if df.Err != nil {
		return nil, df.Err
	}
	return fromRecords(df.Records())
}

// squareRecords gives every row the same width. Empty trailing cells past the
// header are dropped (trailing commas); other extra cells widen the header.
// Short rows are padded with "". Blank header cells are named column_N before
// gota sees them, otherwise it would call them X0, X1...
func squareRecords(records [][]string) [][]string {
	width := len(records[0])
	for i, rec := range records {
		for len(rec) > len(records[0]) && strings.TrimSpace(rec[len(rec)-1]) == "" {
			rec = rec[:len(rec)-1]
		}
		records[i] = rec
		width = max(width, len(rec))
	}
	for i, rec := range records {
		for len(rec) < width {
			rec = append(rec, "")
		}
		records[i] = rec
	}
	for i, h := range records[0] {
		if strings.TrimSpace(h) == "" {
			records[0][i] = fmt.Sprintf("column_%d", i+1)
		}
	}
	return records
}

// sniffDelimiter returns the candidate that appears the same non-zero number
// of times on every sampled line, or 0 when none does.
func sniffDelimiter(lines []string) rune {
	if len(lines) == 0 {
		return 0
	}
	for _, d := range candidateDelimiters {
		want := strings.Count(lines[0], string(d))
		if want == 0 {
			continue
		}
		consistent := true
		for _, l := range lines[1:] {
			if strings.Count(l, string(d)) != want {
				consistent = false
				break
			}
		}
		if consistent {
			return d
		}
	}
	// Quoted CSV can have commas inside cells; accept comma on the header alone.
	if strings.Contains(lines[0], ",") {
		return ','
	}
	return 0
}
