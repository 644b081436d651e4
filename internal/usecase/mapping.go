package usecase

import (
	"fmt"
	"strings"
)

// Field is a canonical lead attribute an imported column can be mapped to.
type Field string

const (
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldPhone     Field = "phone"
	FieldEmail     Field = "email"
	FieldState     Field = "state"
	FieldZipCode   Field = "zip_code"
	FieldTags      Field = "tags"
	FieldStatus    Field = "status"
)

var CanonicalFields = []Field{
	FieldFirstName, FieldLastName, FieldPhone, FieldEmail,
	FieldState, FieldZipCode, FieldTags, FieldStatus,
}

func (f Field) Valid() bool {
	for _, c := range CanonicalFields {
		if c == f {
			return true
		}
	}
	return false
}

// Mapping assigns source columns to canonical fields. A column is held by at
// most one field at a time.
type Mapping map[Field]string

// Assign gives column to field, clearing any other field that held it.
// An empty column unassigns the field.
func (m Mapping) Assign(field Field, column string) error {
	if !field.Valid() {
		return &DomainError{Code: CodeUnknownField, Message: fmt.Sprintf("unknown field %q", field)}
	}
	if column == "" {
		delete(m, field)
		return nil
	}
	for f, c := range m {
		if c == column && f != field {
			delete(m, f)
		}
	}
	m[field] = column
	return nil
}

func (m Mapping) Unassign(field Field) {
	delete(m, field)
}

func (m Mapping) Has(field Field) bool {
	c, ok := m[field]
	return ok && c != ""
}

// FieldFor returns the field currently holding column.
func (m Mapping) FieldFor(column string) (Field, bool) {
	for f, c := range m {
		if c == column {
			return f, true
		}
	}
	return "", false
}

// Validate checks a mapping that arrived from a client: known fields, columns
// present in the file, and no column used twice.
func (m Mapping) Validate(columns []string) error {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	seen := make(map[string]Field, len(m))
	for f, c := range m {
		if !f.Valid() {
			return &DomainError{Code: CodeUnknownField, Message: fmt.Sprintf("unknown field %q", f)}
		}
		if c == "" {
			continue
		}
		if len(columns) > 0 && !known[c] {
			return &DomainError{Code: CodeBadMapping, Message: fmt.Sprintf("column %q is not in the file", c)}
		}
		if other, dup := seen[c]; dup {
			return &DomainError{Code: CodeBadMapping, Message: fmt.Sprintf("column %q is mapped to both %s and %s", c, other, f)}
		}
		seen[c] = f
	}
	return nil
}

type autoMapRule struct {
	field   Field
	needles []string
}

// Order matters: specific name columns win over the generic "name" fallback.
var autoMapRules = []autoMapRule{
	{FieldFirstName, []string{"first", "fname", "given"}},
	{FieldLastName, []string{"last", "lname", "surname"}},
	{FieldPhone, []string{"phone", "cell", "mobile", "tel"}},
	{FieldEmail, []string{"mail"}},
	{FieldState, []string{"state", "province"}},
	{FieldZipCode, []string{"zip", "postal"}},
	{FieldTags, []string{"tag", "label"}},
	{FieldStatus, []string{"status"}},
	{FieldFirstName, []string{"name"}},
}

// AutoMap builds the initial mapping from detected column names using
// case-insensitive substring matches. Each field takes the first matching
// column in file order.
func AutoMap(columns []string) Mapping {
	m := Mapping{}
	used := make(map[string]bool, len(columns))

	for _, rule := range autoMapRules {
		if m.Has(rule.field) {
			continue
		}
		for _, col := range columns {
			if used[col] {
				continue
			}
			lower := strings.ToLower(col)
			if containsAny(lower, rule.needles) {
				m[rule.field] = col
				used[col] = true
				break
			}
		}
	}
	return m
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
