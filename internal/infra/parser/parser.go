// Package parser turns uploaded lead files into a column-ordered table of
// string cells. Supported inputs: csv, xlsx, json, pdf, docx and txt.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	TypeCSV  = "csv"
	TypeXLSX = "xlsx"
	TypeJSON = "json"
	TypePDF  = "pdf"
	TypeDOCX = "docx"
	TypeTXT  = "txt"
)

var (
	ErrEmptyFile   = errors.New("file is empty")
	ErrUnsupported = errors.New("unsupported file type")
	ErrNoRows      = errors.New("no rows found in file")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Result is a parsed table. Columns keeps file order; every row has a value
// (possibly "") for every column.
type Result struct {
	DetectedType string
	Columns      []string
	Rows         []map[string]string
}

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(filename string, content []byte) (*Result, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyFile
	}

	kind := DetectType(filename, content)

	var (
		res *Result
		err error
	)
	switch kind {
	case TypeCSV:
		res, err = parseDelimited(content, sniffDelimiter(firstLines(string(content), 5)))
	case TypeJSON:
		res, err = parseJSON(content)
	case TypeXLSX:
		res, err = parseXLSX(content)
	case TypePDF:
		res, err = parsePDF(content)
	case TypeDOCX:
		res, err = parseDOCX(content)
	case TypeTXT:
		res, err = parseLines(splitLines(string(content)))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", kind, err)
	}
	if len(res.Rows) == 0 {
		return nil, ErrNoRows
	}
	res.DetectedType = kind
	return res, nil
}

// DetectType trusts a known extension and falls back to content sniffing.
func DetectType(filename string, content []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return TypeCSV
	case ".xlsx", ".xlsm":
		return TypeXLSX
	case ".json":
		return TypeJSON
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	case ".txt", ".tsv", ".text":
		return TypeTXT
	}

	switch {
	case bytes.HasPrefix(content, []byte("%PDF-")):
		return TypePDF
	case bytes.HasPrefix(content, []byte("PK\x03\x04")):
		if bytes.Contains(content, []byte("word/document.xml")) {
			return TypeDOCX
		}
		return TypeXLSX
	}

	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return TypeJSON
	}
	if sniffDelimiter(firstLines(string(content), 5)) == ',' {
		return TypeCSV
	}
	return TypeTXT
}

// fromRecords builds a Result from a header row plus data rows. Ragged rows
// are padded, fully blank rows dropped, blank headers named column_N.
func fromRecords(records [][]string) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		header[i] = h
	}

	res := &Result{Columns: header}
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		blank := true
		for i, col := range header {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			if v != "" {
				blank = false
			}
			row[col] = v
		}
		if !blank {
			res.Rows = append(res.Rows, row)
		}
	}
	return res, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func firstLines(s string, n int) []string {
	lines := splitLines(s)
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}
