package fetch_test

import (
	"strings"
	"testing"

	"gist/internal/fetch"

	"github.com/stretchr/testify/assert"
)

func TestExtractDocumentTextPlain(t *testing.T) {
	result := fetch.ExtractDocumentText("notes.txt", "text/plain", []byte("Plain notes.\nSecond line."))
	assert.True(t, result.OK())
	assert.Equal(t, "Plain notes.\nSecond line.", result.Text)
}

func TestExtractDocumentTextDropsInvalidUTF8(t *testing.T) {
	result := fetch.ExtractDocumentText("notes.txt", "", []byte("caf\xff\xfee au lait"))
	assert.Equal(t, "cafe au lait", result.Text)
}

func TestExtractDocumentTextEmptyText(t *testing.T) {
	result := fetch.ExtractDocumentText("blank.txt", "text/plain", []byte("  \n "))
	assert.False(t, result.OK())
	assert.Empty(t, result.Reason)
}

func TestExtractDocumentTextBrokenPDF(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("garbage"), []byte("%PDF-1.4\n%broken")} {
		result := fetch.ExtractDocumentText("scan.PDF", "", data)
		assert.False(t, result.OK())
		assert.True(t, strings.HasPrefix(result.Reason, "Failed to read PDF: "), result.Reason)
	}
}

func TestDocumentLabel(t *testing.T) {
	assert.Equal(t, "PDF: report.pdf", fetch.DocumentLabel("report.pdf", ""))
	assert.Equal(t, "PDF: scan", fetch.DocumentLabel("scan", "application/pdf"))
	assert.Equal(t, "TXT: notes.txt", fetch.DocumentLabel("notes.txt", "text/plain"))
}
