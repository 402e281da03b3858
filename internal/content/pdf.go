package content

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFToText extracts plain text from a PDF, one block per page, pages joined
// by a blank line. Extraction is best effort: any failure, including a
// malformed document, yields an empty string rather than an error, and the
// caller falls back to pointing at the source PDF.
func PDFToText(data []byte) (out string) {
	defer func() {
		// The parser panics on some malformed files.
		if recover() != nil {
			out = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
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
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n")
}
