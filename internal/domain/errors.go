package domain

import "errors"

// Domain errors
var (
	ErrNoFileSelected      = errors.New("no file selected")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidPDF          = errors.New("invalid PDF")
	ErrTaskNotFound        = errors.New("task not found")
	ErrUnknownStrategy     = errors.New("unknown strategy")
	ErrUnknownModel        = errors.New("unknown model")
)

// User-facing status lines.
const (
	StatusSelectFileFirst = "Select PDF file first"
	StatusUnsupportedFile = "Unsupported file type. Please upload an image or a PDF file."
	StatusProcessingFiles = "Processing files ..."
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the sentinel the validation failure refers to, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
