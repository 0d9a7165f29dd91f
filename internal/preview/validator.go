package preview

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"pdf-extract-demo/internal/domain"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// DetectContentType resolves the content type of an uploaded part. Browsers send
// application/octet-stream for unknown extensions, so an absent or generic declared
// type falls back to sniffing the bytes.
func DetectContentType(declared string, data []byte) string {
	ct := strings.TrimSpace(declared)
	if ct == "" || strings.HasPrefix(strings.ToLower(ct), "application/octet-stream") {
		ct = http.DetectContentType(data)
	}
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return strings.ToLower(ct)
}

// LooksLikePDF reports whether data starts with a PDF header.
func LooksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// Validate checks the PDF structure with pdfcpu and returns its page count.
func (r *Renderer) Validate(data []byte) (*domain.PDFMetadata, error) {
	if !LooksLikePDF(data) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrInvalidPDF)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPDF, err)
	}
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPDF, err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrInvalidPDF)
	}

	return &domain.PDFMetadata{
		PageCount: pages,
		FileSize:  int64(len(data)),
	}, nil
}
