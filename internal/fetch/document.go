package fetch

import (
	"bytes"
	"fmt"
	"strings"

	"gist/internal/domain"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF = "application/pdf"

	ReasonPDFNoText = "PDF contains no text."
)

// IsPDF reports whether an upload should be read as a PDF.
func IsPDF(name, mimeType string) bool {
	return strings.EqualFold(mimeType, mimePDF) || strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// DocumentLabel names an uploaded file the way sources are labelled.
func DocumentLabel(name, mimeType string) string {
	if IsPDF(name, mimeType) {
		return "PDF: " + name
	}

	return "TXT: " + name
}

// ExtractDocumentText reads a PDF or plain text upload. Text uploads are
// decoded as UTF-8 with invalid sequences dropped.
func ExtractDocumentText(name, mimeType string, data []byte) domain.FetchResult {
	if IsPDF(name, mimeType) {
		return readPDF(data)
	}

	return domain.Fetched(strings.ToValidUTF8(string(data), ""))
}

func readPDF(data []byte) (result domain.FetchResult) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			result = domain.Failed(fmt.Sprintf("Failed to read PDF: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Failed(fmt.Sprintf("Failed to read PDF: %v", err))
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}

	joined := strings.Join(pages, "\n")
	if strings.TrimSpace(joined) == "" {
		return domain.Failed(ReasonPDFNoText)
	}

	return domain.Fetched(joined)
}
