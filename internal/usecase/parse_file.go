package usecase

import (
	"context"
	"log/slog"
)

const previewRows = 10

type ParseFileUseCase struct {
	Parser   FileParser
	Archiver FileArchiver
}

func NewParseFileUseCase(p FileParser, archiver FileArchiver) *ParseFileUseCase {
	return &ParseFileUseCase{Parser: p, Archiver: archiver}
}

// Execute parses an uploaded file and proposes an initial column mapping.
// Archiving the original upload is best effort.
func (uc *ParseFileUseCase) Execute(ctx context.Context, userID, filename string, content []byte) (*ParseOutput, error) {
	res, err := uc.Parser.Parse(filename, content)
	if err != nil {
		return nil, &DomainError{Code: CodeParseFailed, Message: err.Error()}
	}

	rows := make([]RawRow, 0, len(res.Rows))
	for _, r := range res.Rows {
		row := make(RawRow, len(r))
		for k, v := range r {
			row[k] = v
		}
		rows = append(rows, row)
	}

	preview := rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}

	out := &ParseOutput{
		DetectedType: res.DetectedType,
		Total:        len(rows),
		Columns:      res.Columns,
		Preview:      preview,
		All:          rows,
		InitialMap:   AutoMap(res.Columns),
	}

	if uc.Archiver != nil {
		key, err := uc.Archiver.Archive(ctx, userID, filename, content)
		if err != nil {
			slog.Warn("archive upload failed", "user_id", userID, "file", filename, "err", err)
		} else {
			out.ArchiveKey = key
		}
	}
	return out, nil
}
