package parser

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectType(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"csv extension", "leads.CSV", "anything", TypeCSV},
		{"json extension", "leads.json", "[]", TypeJSON},
		{"pdf magic", "upload", "%PDF-1.4 ...", TypePDF},
		{"json sniff", "upload", "  [{\"a\":1}]", TypeJSON},
		{"comma sniff", "upload", "a,b\n1,2\n", TypeCSV},
		{"plain text", "upload", "John 555-123-4567\n", TypeTXT},
		{"zip without word part", "upload", "PK\x03\x04xl/workbook.xml", TypeXLSX},
		{"zip with word part", "upload", "PK\x03\x04word/document.xml", TypeDOCX},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectType(tc.filename, []byte(tc.content)))
		})
	}
}

func TestParse_CSVKeepsRawStrings(t *testing.T) {
	content := "\xEF\xBB\xBFFirst Name,Phone,Zip\nJohn,555-123-4567,02134\n,,\nJane,5559876543,90210\n"

	res, err := New().Parse("leads.csv", []byte(content))

	require.NoError(t, err)
	assert.Equal(t, TypeCSV, res.DetectedType)
	assert.Equal(t, []string{"First Name", "Phone", "Zip"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "02134", res.Rows[0]["Zip"])
	assert.Equal(t, "555-123-4567", res.Rows[0]["Phone"])
	assert.Equal(t, "Jane", res.Rows[1]["First Name"])
}

func TestParse_CSVShortRowIsPadded(t *testing.T) {
	res, err := New().Parse("leads.csv", []byte("first,last,phone\nJohn,Doe,5551234567\nJane,Smith\n"))

	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Smith", res.Rows[1]["last"])
	assert.Equal(t, "", res.Rows[1]["phone"])
}

func TestParse_CSVTrailingComma(t *testing.T) {
	res, err := New().Parse("leads.csv", []byte("first,last,phone\nJohn,Doe,5551234567,\nJane,Smith,5559876543\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last", "phone"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "5551234567", res.Rows[0]["phone"])
}

func TestParse_CSVExtraCellGetsColumnName(t *testing.T) {
	res, err := New().Parse("leads.csv", []byte("first,phone\nJohn,5551234567,vip\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "phone", "column_3"}, res.Columns)
	assert.Equal(t, "vip", res.Rows[0]["column_3"])
}

func TestSquareRecords(t *testing.T) {
	got := squareRecords([][]string{{"a", "b"}, {"1"}, {"1", "2", "", " "}})
	assert.Equal(t, [][]string{{"a", "b"}, {"1", ""}, {"1", "2"}}, got)

	got = squareRecords([][]string{{"a", ""}, {"1", "2"}})
	assert.Equal(t, []string{"a", "column_2"}, got[0])
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := New().Parse("leads.csv", []byte("   \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParse_HeaderOnly(t *testing.T) {
	_, err := New().Parse("leads.csv", []byte("phone,email\n"))
	assert.Error(t, err)
}

func TestParse_JSON(t *testing.T) {
	content := `[
		{"phone": 5551234567, "email": "a@b.com", "tags": ["x", "y"]},
		{"phone": "555-000-1111", "name": "Bob", "active": true}
	]`

	res, err := New().Parse("leads.json", []byte(content))

	require.NoError(t, err)
	assert.Equal(t, []string{"active", "email", "name", "phone", "tags"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "5551234567", res.Rows[0]["phone"])
	assert.Equal(t, "x,y", res.Rows[0]["tags"])
	assert.Equal(t, "", res.Rows[0]["name"])
	assert.Equal(t, "true", res.Rows[1]["active"])
}

func TestParse_JSONWrappedRows(t *testing.T) {
	res, err := New().Parse("x.json", []byte(`{"leads": [{"phone": "1"}]}`))

	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}

func TestParse_JSONRejectsScalars(t *testing.T) {
	_, err := New().Parse("x.json", []byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Phone"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Email"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "5551234567"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "a@b.com"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "5550001111"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := New().Parse("leads.xlsx", buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, TypeXLSX, res.DetectedType)
	assert.Equal(t, []string{"Phone", "Email"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "", res.Rows[1]["Email"])
}

func TestParse_TextFreeForm(t *testing.T) {
	content := "Leads from the expo\nJohn Smith - (555) 123-4567\njane@example.com\nnothing here\n"

	res, err := New().Parse("notes.txt", []byte(content))

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "phone", "email"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "John Smith", res.Rows[0]["name"])
	assert.Equal(t, "(555) 123-4567", res.Rows[0]["phone"])
	assert.Equal(t, "jane@example.com", res.Rows[1]["email"])
}

func TestParse_TextTabDelimited(t *testing.T) {
	content := "name\tphone\nJohn\t5551234567\nJane\t5559876543\n"

	res, err := New().Parse("export.tsv", []byte(content))

	require.NoError(t, err)
	assert.Equal(t, TypeTXT, res.DetectedType)
	assert.Equal(t, []string{"name", "phone"}, res.Columns)
	assert.Len(t, res.Rows, 2)
}

func TestParse_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Ann Lee 555-222-3333</w:t></w:r></w:p>
<w:p><w:r><w:t>ann@x.io</w:t></w:r></w:p>
</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	res, err := New().Parse("list.docx", buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, TypeDOCX, res.DetectedType)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Ann Lee", res.Rows[0]["name"])
	assert.Equal(t, "555-222-3333", res.Rows[0]["phone"])
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, '|', sniffDelimiter([]string{"a|b|c", "1|2|3"}))
	assert.Equal(t, ';', sniffDelimiter([]string{"a;b", "1;2"}))
	assert.Equal(t, rune(0), sniffDelimiter([]string{"hello world"}))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, [][]string{
		{"phone", "zip"},
		{"+15551234567", "02134"},
	})

	require.NoError(t, err)
	assert.Equal(t, "phone,zip\n+15551234567,02134\n", buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, [][]string{{"phone", "zip"}}))
	assert.Equal(t, "phone,zip\n", buf.String())
}
