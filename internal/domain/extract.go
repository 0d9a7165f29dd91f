package domain

import (
	"strings"
)

const (
	// ContentTypePDF is the only file type accepted for preview and upload.
	ContentTypePDF = "application/pdf"

	// DefaultPrompt is preloaded into the transformation textarea.
	DefaultPrompt = "Fix typos, remove Personal Data (addresses, name, last name, phone number), convert to JSON and return only JSON structure"

	DefaultStrategy = "marker"
	DefaultModel    = "llama3.1"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Strategies lists the extraction strategies offered to the user.
var Strategies = []Option{
	{Value: "marker", Label: "marker"},
}

// Models lists the LLMs the service can use for the transformation step.
var Models = []Option{
	{Value: "llama3.1", Label: "llama3.1:7b"},
	{Value: "llama3.1:70b", Label: "llama3.1:70b"},
	{Value: "gemma2", Label: "gemma2"},
	{Value: "gemma2:27b", Label: "gemma2:27b"},
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

// SelectedFile is a file picked by the user and held until submission.
type SelectedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsPDF reports whether the declared content type is application/pdf.
func (f *SelectedFile) IsPDF() bool {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == ContentTypePDF
}

// SubmitOptions holds what the user set on the form besides the file.
type SubmitOptions struct {
	UsePrompt bool   `json:"use_prompt"`
	Prompt    string `json:"prompt"`
	Strategy  string `json:"strategy"`
	Model     string `json:"model"`
}

// DefaultSubmitOptions mirrors the initial state of the form.
func DefaultSubmitOptions() SubmitOptions {
	return SubmitOptions{
		Prompt:   DefaultPrompt,
		Strategy: DefaultStrategy,
		Model:    DefaultModel,
	}
}

// ExtractRequest is the payload sent to the upload endpoint.
type ExtractRequest struct {
	FileName string
	File     []byte
	Prompt   string // empty when the transformation step is disabled
	Strategy string
	Model    string
	OCRCache bool
}

// NewExtractRequest validates the selection and builds the upload payload.
func NewExtractRequest(file *SelectedFile, opts SubmitOptions) (*ExtractRequest, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, ErrNoFileSelected
	}
	if !file.IsPDF() {
		return nil, ErrUnsupportedFileType
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = DefaultStrategy
	}
	if !hasOption(Strategies, strategy) {
		return nil, &ValidationError{Field: "strategy", Message: ErrUnknownStrategy.Error() + ": " + strategy, Err: ErrUnknownStrategy}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	if !hasOption(Models, model) {
		return nil, &ValidationError{Field: "model", Message: ErrUnknownModel.Error() + ": " + model, Err: ErrUnknownModel}
	}

	req := &ExtractRequest{
		FileName: file.Name,
		File:     file.Data,
		Strategy: strategy,
		Model:    model,
		OCRCache: true,
	}
	if opts.UsePrompt {
		req.Prompt = opts.Prompt
	}
	return req, nil
}
