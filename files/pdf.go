package files

import (
	"bytes"
	"errors"

	pdf "rsc.io/pdf"
)

// ExtractPDFText opens a PDF at filePath and returns its text layer
// up to maxChars. Receipts are usually a single short page; the cap
// guards against arbitrary uploads.
func ExtractPDFText(filePath string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = 12000
	}

	r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	total := r.NumPage()
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			buf.WriteString(t.S)
		}
		buf.WriteString("\n\n")
		if buf.Len() >= maxChars {
			return buf.String()[:maxChars], nil
		}
	}
	if buf.Len() == 0 {
		// Scanned receipts have no text layer; the caller falls back
		// to image OCR.
		return "", errors.New("pdf has no text layer")
	}
	return buf.String(), nil
}
