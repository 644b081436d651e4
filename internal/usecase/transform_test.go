package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvewyre/lead-api/internal/entity"
)

func TestTransformRows_PhoneNormalization(t *testing.T) {
	m := Mapping{FieldPhone: "p"}
	cases := map[string]string{
		"5551234567":     "+15551234567",
		"(555) 123-4567": "+15551234567",
		"15551234567":    "+15551234567",
		"447911123456":   "+447911123456",
		"123":            "+123",
		"no digits":      "",
		"":               "",
	}
	for in, want := range cases {
		rows := TransformRows([]RawRow{{"p": in}}, m, TransformOptions{})
		assert.Equal(t, want, rows[0].Phone, "input %q", in)
	}
}

func TestTransformRows_JSONNumberPhone(t *testing.T) {
	rows := TransformRows([]RawRow{{"p": json.Number("5551234567")}}, Mapping{FieldPhone: "p"}, TransformOptions{})
	assert.Equal(t, "+15551234567", rows[0].Phone)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, NormalizeTags("a, b| c"))
	assert.Equal(t, []string{"x"}, NormalizeTags([]any{"x", "", nil}))
	assert.Equal(t, []string{"y"}, NormalizeTags([]string{" y ", ""}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
	assert.Equal(t, []string{}, NormalizeTags(" , |"))
}

func TestTransformRows_EndToEndScenario(t *testing.T) {
	columns := []string{"Full Name", "Cell", "E-mail"}
	rows := []RawRow{
		{"Full Name": "John Doe", "Cell": "555-123-4567", "E-mail": "john@x.com"},
		{"Full Name": "", "Cell": "555-987-6543", "E-mail": "jane.smith@x.com"},
	}

	out := TransformRows(rows, AutoMap(columns), TransformOptions{})

	require.Len(t, out, 2)
	assert.Equal(t, "John Doe", out[0].FirstName)
	assert.Equal(t, "+15551234567", out[0].Phone)
	assert.False(t, out[0].NameInferred)

	assert.Equal(t, "Jane", out[1].FirstName)
	assert.Equal(t, "Smith", out[1].LastName)
	assert.Equal(t, "+15559876543", out[1].Phone)
	assert.True(t, out[1].NameInferred)
}

func TestTransformRows_BothNamesMappedNeverInfers(t *testing.T) {
	m := Mapping{FieldFirstName: "f", FieldLastName: "l", FieldEmail: "e", FieldPhone: "p"}
	emails := []string{"jane.smith@x.com", "bob@x.com", "a_b-c@x.com", "weird..@x"}
	for _, e := range emails {
		out := TransformRows([]RawRow{{"f": "", "l": "", "e": e, "p": "5551234567"}}, m, TransformOptions{})
		assert.Empty(t, out[0].FirstName, e)
		assert.Empty(t, out[0].LastName, e)
		assert.False(t, out[0].NameInferred, e)
	}
}

func TestTransformRows_InferenceOff(t *testing.T) {
	m := Mapping{FieldEmail: "e"}
	out := TransformRows([]RawRow{{"e": "jane.smith@x.com"}}, m, TransformOptions{NameInference: entity.NameInferenceOff})
	assert.Empty(t, out[0].FirstName)
}

func TestInferNameFromEmail(t *testing.T) {
	cases := []struct {
		email    string
		strategy entity.NameInference
		first    string
		last     string
	}{
		{"jane.smith@x.com", entity.NameInferenceShorterFirst, "Jane", "Smith"},
		{"alexander.cruz@x.com", entity.NameInferenceShorterFirst, "Cruz", "Alexander"},
		{"alexander.cruz@x.com", entity.NameInferenceOrdered, "Alexander", "Cruz"},
		{"ann_lee@x.com", entity.NameInferenceShorterFirst, "Ann", "Lee"},
		{"mary-ann-jones@x.com", entity.NameInferenceOrdered, "Mary", "Jones"},
		{"BOB@x.com", entity.NameInferenceShorterFirst, "Bob", ""},
		{"@x.com", entity.NameInferenceShorterFirst, "", ""},
		{"jane.smith@x.com", entity.NameInferenceOff, "", ""},
	}
	for _, tc := range cases {
		first, last := InferNameFromEmail(tc.email, tc.strategy)
		assert.Equal(t, tc.first, first, tc.email)
		assert.Equal(t, tc.last, last, tc.email)
	}
}

func TestTransformRows_StatusStateAndExtraTags(t *testing.T) {
	m := Mapping{FieldPhone: "p", FieldState: "s", FieldStatus: "st", FieldTags: "t"}
	rows := []RawRow{
		{"p": "5551234567", "s": " ny ", "st": "Qualified", "t": "vip, Expo"},
		{"p": "5551234568", "s": "", "st": "bogus", "t": nil},
		{"p": "5551234569"},
	}

	out := TransformRows(rows, m, TransformOptions{ExtraTags: []string{"expo", "spring"}})

	assert.Equal(t, "NY", out[0].State)
	assert.Equal(t, entity.StatusQualified, out[0].Status)
	assert.Equal(t, []string{"vip", "Expo", "spring"}, out[0].Tags)
	assert.Equal(t, entity.StatusActive, out[1].Status)
	assert.Equal(t, "bogus", out[1].UnknownStatus)
	assert.Equal(t, []string{"expo", "spring"}, out[1].Tags)
	assert.Equal(t, entity.StatusActive, out[2].Status)
	assert.Empty(t, out[0].UnknownStatus)
	assert.Empty(t, out[2].UnknownStatus)
}

func TestImportStatus(t *testing.T) {
	cases := []struct {
		in      string
		status  entity.LeadStatus
		unknown string
	}{
		{"", entity.StatusActive, ""},
		{"  QUALIFIED ", entity.StatusQualified, ""},
		{" Hot Prospect ", entity.StatusActive, "Hot Prospect"},
	}
	for _, tc := range cases {
		status, unknown := importStatus(tc.in)
		assert.Equal(t, tc.status, status, tc.in)
		assert.Equal(t, tc.unknown, unknown, tc.in)
	}
}
