package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"crumb/internal/importer"
	applog "crumb/internal/log"
	"crumb/models"
)

var errUploadTooLarge = errors.New("handlers: upload too large")

// ImportFormula parses an uploaded bake sheet, either a text or PDF file in
// the "formula_file" field or pasted text in "formula_text", and stores it as
// a new formula.
func ImportFormula(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, importer.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(importer.MaxUploadSize); err != nil {
		applog.Debug(r.Context(), "failed to parse import form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Upload the sheet as multipart form data.")
		return
	}

	fileName, fileBytes, fileType, err := readFormulaUpload(r)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Sheets are limited to %d bytes.", importer.MaxUploadSize))
			return
		}
		applog.Error(r.Context(), "formula upload read failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Unable to read the uploaded file. Please try again.")
		return
	}

	var f models.Formula
	if len(fileBytes) > 0 {
		applog.Debug(r.Context(), "importing uploaded sheet", "file", fileName, "mime", fileType, "size", len(fileBytes))
		f, err = importer.FromUpload(r.Context(), fileBytes, fileType)
	} else {
		f, err = importer.ParseText(r.FormValue("formula_text"))
	}
	if err != nil {
		writeStoreError(w, r, err, "import the sheet")
		return
	}
	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		f.Name = name
	}

	created, _, err := formulas.Create(r.Context(), userID, f)
	if err != nil {
		writeStoreError(w, r, err, "save the imported formula")
		return
	}
	applog.Info(r.Context(), "formula imported", "formulaID", created.ID, "userID", userID, "file", fileName)
	writeFormula(w, http.StatusCreated, userID, created)
}

func readFormulaUpload(r *http.Request) (string, []byte, string, error) {
	file, header, err := r.FormFile("formula_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, "", nil
		}
		return "", nil, "", err
	}
	defer file.Close()

	if header.Size > importer.MaxUploadSize {
		return "", nil, "", fmt.Errorf("%w: %d bytes", errUploadTooLarge, header.Size)
	}

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return "", nil, "", err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = importer.MimeTypeFromName(header.Filename)
	}

	return header.Filename, buf.Bytes(), mime, nil
}
