package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	examapi "github.com/futig/examgenie/internal/api/exam"
	"github.com/futig/examgenie/internal/config"
	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/integration/backend"
	"github.com/futig/examgenie/internal/pkg/formatter"
	pkgRetry "github.com/futig/examgenie/internal/pkg/retry"
	examuc "github.com/futig/examgenie/internal/usecase/exam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.MockBackendConfig{
		UploadDir:     filepath.Join(dir, "uploads"),
		OutputDir:     filepath.Join(dir, "outputs"),
		MaxUploadSize: 1 << 20,
	}
	uc := examuc.NewUsecase(cfg,
		examuc.NewDocumentExtractor(),
		examuc.NewPredictor(),
		formatter.NewPDFFormatter(),
		examuc.NewMemoryAccounts(),
	)

	srv := httptest.NewServer(SetupRouter(examapi.NewHandler(uc, cfg.MaxUploadSize), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url string) *backend.Connector {
	t.Helper()

	c, err := backend.NewConnector(config.BackendConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:            url,
			RequestTimeout: 10 * time.Second,
		},
		UploadEndpoint:   "/upload",
		PredictEndpoint:  "/predict",
		DownloadEndpoint: "/download/{artifact}",
		LoginEndpoint:    "/login",
		RegisterEndpoint: "/register",
		ValidateSchema:   true,
		Retry:            pkgRetry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond},
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestBackendContract_Workflow(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t, srv.URL)
	ctx := context.Background()

	texts, err := client.Upload(ctx, []entity.SelectedFile{
		entity.FileFromBytes("scan.png", []byte{0x89, 'P', 'N', 'G'}),
		entity.FileFromBytes("broken.pdf", []byte("not a pdf")),
	})
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Equal(t, "scan.png", texts[0].Filename)
	assert.NotEmpty(t, texts[0].Text)
	assert.Equal(t, "broken.pdf", texts[1].Filename)

	result, err := client.Predict(ctx, []string{
		"Q1. Explain photosynthesis in plants\nQ2. Describe cellular respiration process",
		"Q1. Explain photosynthesis in plants\nQ2. Outline genetics inheritance rules",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Paper.TotalPapersAnalyzed)
	assert.Equal(t, "photosynthesis", result.Paper.TopTopics[0].Topic)
	require.True(t, result.HasArtifact())
	assert.True(t, strings.HasPrefix(result.PDFPath, "predicted_paper_"))

	var buf bytes.Buffer
	n, err := client.Download(ctx, result.PDFPath, &buf)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestBackendContract_Accounts(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t, srv.URL)
	ctx := context.Background()

	msg, err := client.Register(ctx, entity.RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Registration successful", msg)

	_, err = client.Register(ctx, entity.RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "secret"})
	var appErr *entity.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Email already registered", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)

	acc, err := client.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ada", acc.Name)
	assert.NotEmpty(t, acc.ID)

	_, err = client.Login(ctx, "ada@example.com", "wrong")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Invalid email or password", appErr.Message)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
}

func TestBackendContract_MissingArtifact(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t, srv.URL)

	var buf bytes.Buffer
	_, err := client.Download(context.Background(), "missing.pdf", &buf)
	require.Error(t, err)
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	var body entity.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestRouter_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/upload", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No files provided", decodeError(t, resp))

	resp, err = http.Post(srv.URL+"/predict", "application/json", strings.NewReader(`{"texts": []}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No texts provided", decodeError(t, resp))

	resp, err = http.Post(srv.URL+"/predict", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/login", "application/json", strings.NewReader(`{"email": "a@b.c"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email and password required", decodeError(t, resp))

	resp, err = http.Post(srv.URL+"/register", "application/json", strings.NewReader(`{"email": "a@b.c"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "All fields are required", decodeError(t, resp))

	resp, err = http.Get(srv.URL + "/download/missing.pdf")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "File not found", decodeError(t, resp))
}

func TestRouter_CORSAndDocs(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/predict", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/docs/swagger.yaml")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ExamGenie Backend Service")
}
