package parser

import (
	"encoding/csv"
	"io"

	"github.com/go-gota/gota/dataframe"
)

// WriteCSV writes a header row plus data rows. Cells are written as given;
// no type inference is applied.
func WriteCSV(w io.Writer, records [][]string) error {
	if len(records) < 2 {
		// A dataframe needs at least one data row; emit the bare header.
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(records); err != nil {
			return err
		}
		return cw.Error()
	}

	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}
