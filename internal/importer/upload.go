package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	applog "crumb/internal/log"
	"crumb/models"
)

// MaxUploadSize bounds formula sheets accepted from uploads.
const MaxUploadSize = 5 << 20 // 5 MiB

// ErrUnsupportedType is returned for uploads that carry no extractable text.
var ErrUnsupportedType = errors.New("importer: unsupported upload type")

// FromUpload extracts the text of an uploaded sheet and parses it.
func FromUpload(ctx context.Context, data []byte, mime string) (models.Formula, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Formula{}, ErrEmptySource
	}
	text, err := ExtractText(data, mime)
	if err != nil {
		applog.Error(ctx, "formula sheet extraction failed", "error", err, "mime", mime)
		return models.Formula{}, err
	}
	applog.Debug(ctx, "formula sheet extracted", "mime", mime, "bytes", len(data), "chars", len(text))
	return ParseText(text)
}

// ExtractText returns the plain text carried by an upload.
func ExtractText(data []byte, mime string) (string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		text, err := extractTextFromPDF(data)
		if err != nil {
			return "", fmt.Errorf("importer: read pdf: %w", err)
		}
		return text, nil
	case strings.HasPrefix(lower, "text/"), lower == "", lower == "application/octet-stream":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// MimeTypeFromName guesses the content type of an upload from its file name.
func MimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
