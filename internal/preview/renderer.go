// Package preview rasterises PDF pages into thumbnails for the demo page.
package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"pdf-extract-demo/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const DefaultDPI = 72

// Renderer converts PDFs to per-page PNG images.
type Renderer struct {
	dpi    float64
	logger domain.Logger
}

var _ domain.PreviewRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer; dpi <= 0 uses DefaultDPI.
func NewRenderer(dpi float64, logger domain.Logger) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{dpi: dpi, logger: logger}
}

// Render rasterises every page of the PDF. Pages are named "<fileName>-<n>", n from 1.
func (r *Renderer) Render(ctx context.Context, fileName string, data []byte) ([]domain.PageImage, error) {
	meta, err := r.Validate(data)
	if err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPDF, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if numPages != meta.PageCount {
		r.logger.Warn("Page count mismatch between validators", "file", fileName, "pdfcpu", meta.PageCount, "mupdf", numPages)
	}

	images := make([]domain.PageImage, 0, numPages)
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		png, err := doc.ImagePNG(i, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		images = append(images, domain.PageImage{
			DisplayName: fileName + "-" + strconv.Itoa(i+1),
			Page:        i + 1,
			DataURI:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		})
		r.logger.Debug("Rendered preview page", "file", fileName, "page", i+1, "total", numPages)
	}

	return images, nil
}

// PNG decodes the payload of a rendered page back to raw PNG bytes.
func PNG(img domain.PageImage) ([]byte, error) {
	const prefix = "data:image/png;base64,"
	if len(img.DataURI) < len(prefix) || img.DataURI[:len(prefix)] != prefix {
		return nil, fmt.Errorf("page %d is not a PNG data URI", img.Page)
	}
	return base64.StdEncoding.DecodeString(img.DataURI[len(prefix):])
}
