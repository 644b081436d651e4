package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
	"github.com/hyvewyre/lead-api/internal/usecase"
)

const maxUploadSize = 20 << 20

type ImportHandler struct {
	ParseUC  *usecase.ParseFileUseCase
	ImportUC *usecase.ImportLeadsUseCase
}

func NewImportHandler(parse *usecase.ParseFileUseCase, imp *usecase.ImportLeadsUseCase) *ImportHandler {
	return &ImportHandler{ParseUC: parse, ImportUC: imp}
}

// Parse reads the multipart "file" field and returns columns, preview and
// the suggested mapping.
func (h *ImportHandler) Parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: "FILE_TOO_LARGE", Error: "file exceeds 20MB"})
			return
		}
		badRequest(w, "expected multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "could not read upload")
		return
	}

	out, err := h.ParseUC.Execute(r.Context(), middleware.UserID(r.Context()), header.Filename, content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var in usecase.ImportInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}
	in.UserID = middleware.UserID(r.Context())

	out, err := h.ImportUC.Execute(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordImport(out.Imported, out.Duplicates, out.Invalid, out.DNCSkipped)
	writeOK(w, http.StatusOK, out)
}
