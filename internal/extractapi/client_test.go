package extractapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pdf-extract-demo/internal/domain"
	apperrors "pdf-extract-demo/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest(prompt string) *domain.ExtractRequest {
	return &domain.ExtractRequest{
		FileName: "scan.pdf",
		File:     []byte("%PDF-1.7 fake"),
		Prompt:   prompt,
		Strategy: "marker",
		Model:    "llama3.1",
		OCRCache: true,
	}
}

func TestUploadFile_SendsMultipartFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ocr/upload", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "doctractor", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "convert to JSON", r.FormValue("prompt"))
		assert.Equal(t, "marker", r.FormValue("strategy"))
		assert.Equal(t, "llama3.1", r.FormValue("model"))
		assert.Equal(t, "true", r.FormValue("ocr_cache"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "scan.pdf", hdr.Filename)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.7 fake", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task_id":"task-123"}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL, WithCredentials("doctractor", "secret"))
	require.NoError(t, err)

	resp, err := c.UploadFile(context.Background(), sampleRequest("convert to JSON"))
	require.NoError(t, err)
	assert.Equal(t, "task-123", resp.TaskID)
}

func TestUploadFile_OmitsEmptyPrompt(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, present := r.MultipartForm.Value["prompt"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"task_id":"t"}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	_, err = c.UploadFile(context.Background(), sampleRequest(""))
	require.NoError(t, err)
}

func TestUploadFile_ServiceErrorDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"Invalid strategy"}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	_, err = c.UploadFile(context.Background(), sampleRequest(""))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstream))
	assert.Equal(t, "Invalid strategy", apperrors.UserMessage(err))
	assert.Equal(t, http.StatusBadGateway, apperrors.GetStatusCode(err))
}

func TestUploadFile_PlainTextError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	_, err = c.UploadFile(context.Background(), sampleRequest(""))
	require.Error(t, err)
	assert.Equal(t, "Service Unavailable", apperrors.UserMessage(err))
}

func TestUploadFile_MissingTaskID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	_, err = c.UploadFile(context.Background(), sampleRequest(""))
	require.Error(t, err)
	assert.Contains(t, apperrors.UserMessage(err), "no task id")
}

func TestUploadFile_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.UploadFile(context.Background(), sampleRequest(""))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
}

func TestUploadFile_RequiresFile(t *testing.T) {
	c, err := NewClient("http://example.invalid")
	require.NoError(t, err)

	_, err = c.UploadFile(context.Background(), &domain.ExtractRequest{})
	assert.ErrorIs(t, err, domain.ErrNoFileSelected)
}

func TestGetResult_DecodesStates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ocr/result/abc", r.URL.Path)
		_, _ = w.Write([]byte(`{"state":"PROGRESS","status":"Processing","info":{"elapsed_time":1.5}}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	res, err := c.GetResult(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStateProgress, res.State)
	assert.Equal(t, "Processing (1.50s)", res.StatusText())
	assert.Nil(t, res.Result)
}

func TestGetResult_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"state":"SUCCESS","status":"Task completed","result":"# Doc"}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL + "/")
	require.NoError(t, err)

	res, err := c.GetResult(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStateSuccess, res.State)
	assert.Equal(t, "# Doc", res.ResultText())
}

func TestGetResult_EmptyTaskID(t *testing.T) {
	c, err := NewClient("https://api.example.com")
	require.NoError(t, err)

	_, err = c.GetResult(context.Background(), " ")
	assert.Error(t, err)
}

func TestResultURL(t *testing.T) {
	c, err := NewClient("https://api.doctractor.com")
	require.NoError(t, err)
	assert.Equal(t, "https://api.doctractor.com/ocr/result/a%2Fb", c.ResultURL("a/b"))

	c, err = NewClient("https://host/prefix/", WithResultPath("result/"))
	require.NoError(t, err)
	assert.Equal(t, "https://host/prefix/result/t1", c.ResultURL("t1"))
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://files.example.com")
	assert.Error(t, err)
}
