package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// parseJSON accepts an array of objects, a single object, or an object that
// wraps the array under "rows", "data" or "leads".
func parseJSON(content []byte) (*Result, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	items, err := jsonItems(doc)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var columns []string
	for _, it := range items {
		for k := range it {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	if len(columns) == 0 {
		return nil, ErrNoRows
	}
	sort.Strings(columns)

	records := make([][]string, 0, len(items)+1)
	records = append(records, columns)
	for _, it := range items {
		rec := make([]string, len(columns))
		for i, c := range columns {
			rec[i] = jsonCell(it[c])
		}
		records = append(records, rec)
	}

	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return nil, df.Err
	}
	return fromRecords(df.Records())
}

func jsonItems(doc any) ([]map[string]any, error) {
	switch v := doc.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is not an object", i)
			}
			out = append(out, obj)
		}
		return out, nil
	case map[string]any:
		for _, key := range []string{"rows", "data", "leads"} {
			if inner, ok := v[key].([]any); ok {
				return jsonItems(inner)
			}
		}
		return []map[string]any{v}, nil
	}
	return nil, errors.New("expected an array of objects")
}

func jsonCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			if s := jsonCell(el); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
