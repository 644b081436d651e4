package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyvewyre/lead-api/internal/entity"
)

// RawRow is one parsed record keyed by source column name.
type RawRow map[string]any

type ImportRow struct {
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	State     string            `json:"state"`
	ZipCode   string            `json:"zip_code"`
	Tags      []string          `json:"tags"`
	Status    entity.LeadStatus `json:"status"`

	// NameInferred marks rows whose names came from the email local part.
	NameInferred bool `json:"name_inferred,omitempty"`
	// UnknownStatus holds a non-blank source status that is not a lead
	// status. The row itself falls back to Active.
	UnknownStatus string `json:"unknown_status,omitempty"`
}

type TransformOptions struct {
	NameInference entity.NameInference
	// ExtraTags are merged into every row; used for tags chosen at import time.
	ExtraTags []string
}

func TransformRows(rows []RawRow, m Mapping, opts TransformOptions) []ImportRow {
	strategy := opts.NameInference
	if strategy == "" {
		strategy = entity.NameInferenceShorterFirst
	}
	extra := NormalizeTags(opts.ExtraTags)
	bothNamesMapped := m.Has(FieldFirstName) && m.Has(FieldLastName)

	out := make([]ImportRow, 0, len(rows))
	for _, raw := range rows {
		status, unknown := importStatus(m.stringValue(raw, FieldStatus))
		row := ImportRow{
			FirstName:     strings.TrimSpace(m.stringValue(raw, FieldFirstName)),
			LastName:      strings.TrimSpace(m.stringValue(raw, FieldLastName)),
			Phone:         entity.NormalizePhone(m.stringValue(raw, FieldPhone)),
			Email:         strings.TrimSpace(m.stringValue(raw, FieldEmail)),
			State:         strings.ToUpper(strings.TrimSpace(m.stringValue(raw, FieldState))),
			ZipCode:       strings.TrimSpace(m.stringValue(raw, FieldZipCode)),
			Tags:          mergeTags(NormalizeTags(m.value(raw, FieldTags)), extra),
			Status:        status,
			UnknownStatus: unknown,
		}

		if row.Email != "" && row.FirstName == "" && row.LastName == "" && !bothNamesMapped && strategy != entity.NameInferenceOff {
			row.FirstName, row.LastName = InferNameFromEmail(row.Email, strategy)
			row.NameInferred = row.FirstName != ""
		}
		out = append(out, row)
	}
	return out
}

// InferNameFromEmail splits the local part on . _ and -. With two or more
// parts the first and last tokens become the name; shorter_first puts the
// shorter token first (ties keep file order). A single part becomes the
// capitalized first name.
func InferNameFromEmail(email string, strategy entity.NameInference) (first, last string) {
	if strategy == entity.NameInferenceOff {
		return "", ""
	}
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})

	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return capitalize(parts[0]), ""
	}

	a, b := parts[0], parts[len(parts)-1]
	if strategy == entity.NameInferenceShorterFirst && utf8.RuneCountInString(b) < utf8.RuneCountInString(a) {
		a, b = b, a
	}
	return capitalize(a), capitalize(b)
}

// NormalizeTags accepts a delimited string ("a, b| c") or a list and returns
// trimmed, non-empty tags. It never returns nil.
func NormalizeTags(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case string:
		for _, p := range strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == '|' }) {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, p := range t {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, p := range t {
			if p == nil {
				continue
			}
			if s := strings.TrimSpace(toString(p)); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := strings.TrimSpace(toString(t)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// mergeTags appends extra to base, skipping case-insensitive duplicates.
func mergeTags(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, t := range list {
			k := strings.ToLower(t)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, t)
		}
	}
	return out
}

// importStatus maps known statuses case-insensitively. Blank values are
// Active. Anything else is Active too, with the trimmed source value returned
// as unknown.
func importStatus(v string) (status entity.LeadStatus, unknown string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return entity.StatusActive, ""
	}
	s := entity.LeadStatus(strings.ToLower(v))
	if s.Valid() {
		return s, ""
	}
	return entity.StatusActive, v
}

func (m Mapping) value(row RawRow, f Field) any {
	col, ok := m[f]
	if !ok || col == "" {
		return nil
	}
	return row[col]
}

func (m Mapping) stringValue(row RawRow, f Field) string {
	v := m.value(row, f)
	if v == nil {
		return ""
	}
	if list, ok := v.([]any); ok {
		return strings.Join(NormalizeTags(list), ",")
	}
	return toString(v)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
