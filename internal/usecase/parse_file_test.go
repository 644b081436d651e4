package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvewyre/lead-api/internal/infra/parser"
)

func TestParseFile_BuildsPreviewAndMapping(t *testing.T) {
	p := new(MockFileParser)
	a := new(MockFileArchiver)
	uc := NewParseFileUseCase(p, a)
	ctx := context.Background()
	content := []byte("ignored")

	res := &parser.Result{DetectedType: "csv", Columns: []string{"Full Name", "Cell"}}
	for i := 0; i < 12; i++ {
		res.Rows = append(res.Rows, map[string]string{"Full Name": fmt.Sprintf("n%d", i), "Cell": "555"})
	}
	p.On("Parse", "leads.csv", content).Return(res, nil)
	a.On("Archive", ctx, "u1", "leads.csv", content).Return("imports/u1/abc.csv", nil)

	out, err := uc.Execute(ctx, "u1", "leads.csv", content)

	require.NoError(t, err)
	assert.Equal(t, "csv", out.DetectedType)
	assert.Equal(t, 12, out.Total)
	assert.Len(t, out.Preview, 10)
	assert.Len(t, out.All, 12)
	assert.Equal(t, "n0", out.Preview[0]["Full Name"])
	assert.Equal(t, "Full Name", out.InitialMap[FieldFirstName])
	assert.Equal(t, "Cell", out.InitialMap[FieldPhone])
	assert.Equal(t, "imports/u1/abc.csv", out.ArchiveKey)
}

func TestParseFile_ArchiveFailureIsNotFatal(t *testing.T) {
	p := new(MockFileParser)
	a := new(MockFileArchiver)
	uc := NewParseFileUseCase(p, a)
	ctx := context.Background()

	p.On("Parse", "x.json", []byte("[]")).Return(&parser.Result{DetectedType: "json", Columns: []string{"phone"},
		Rows: []map[string]string{{"phone": "1"}}}, nil)
	a.On("Archive", ctx, "u1", "x.json", []byte("[]")).Return("", errors.New("s3 down"))

	out, err := uc.Execute(ctx, "u1", "x.json", []byte("[]"))

	require.NoError(t, err)
	assert.Empty(t, out.ArchiveKey)
}

func TestParseFile_ParseError(t *testing.T) {
	p := new(MockFileParser)
	uc := NewParseFileUseCase(p, nil)

	p.On("Parse", "x.csv", []byte("")).Return(nil, parser.ErrEmptyFile)

	_, err := uc.Execute(context.Background(), "u1", "x.csv", []byte(""))

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeParseFailed, de.Code)
	assert.Equal(t, "file is empty", de.Message)
}
