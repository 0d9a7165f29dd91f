package domain

// PageImage is one rasterised PDF page ready for display.
type PageImage struct {
	DisplayName string `json:"display_name"`
	Page        int    `json:"page"` // 1-indexed
	DataURI     string `json:"data_uri"`
}

// PDFMetadata describes a validated PDF.
type PDFMetadata struct {
	PageCount int   `json:"page_count"`
	FileSize  int64 `json:"file_size"`
}
