package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

func parseXLSX(content []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return fromRecords(rows)
}

func parsePDF(content []byte) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	text, err := r.GetPlainText()
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(text)
	if err != nil {
		return nil, err
	}
	return parseLines(splitLines(string(b)))
}

// parseDOCX reads word/document.xml and turns each paragraph into a line.
func parseDOCX(content []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, errors.New("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var (
		lines  []string
		cur    strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if strings.TrimSpace(cur.String()) != "" {
					lines = append(lines, cur.String())
				}
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return parseLines(lines)
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\-\s().]{8,}\d`)
	trimSep = " \t,;|:-"
)

// parseLines parses text lines as a delimited table when they share a
// delimiter, otherwise extracts one {name, phone, email} row per line that
// contains a phone or an email.
func parseLines(lines []string) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrNoRows
	}

	if d := sniffDelimiter(firstLines(strings.Join(lines, "\n"), 5)); d != 0 && len(lines) > 1 {
		return parseDelimited([]byte(strings.Join(lines, "\n")), d)
	}

	res := &Result{Columns: []string{"name", "phone", "email"}}
	for _, l := range lines {
		email := emailRe.FindString(l)
		phone := strings.TrimSpace(phoneRe.FindString(l))
		if email == "" && phone == "" {
			continue
		}
		rest := l
		if email != "" {
			rest = strings.Replace(rest, email, " ", 1)
		}
		if phone != "" {
			rest = strings.Replace(rest, phone, " ", 1)
		}
		name := strings.Join(strings.Fields(strings.Trim(rest, trimSep)), " ")
		name = strings.Trim(name, trimSep)
		res.Rows = append(res.Rows, map[string]string{
			"name":  name,
			"phone": phone,
			"email": email,
		})
	}
	return res, nil
}
