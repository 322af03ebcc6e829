package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/futig/examgenie/internal/config"
	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/integration/common"
	pkgRetry "github.com/futig/examgenie/internal/pkg/retry"
	pkghttp "github.com/futig/examgenie/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// UploadField is the multipart field holding each uploaded file
const UploadField = "files[]"

const artifactPlaceholder = "{artifact}"

// Connector talks to the Backend Service over HTTP
type Connector struct {
	config    config.BackendConnectorConfig
	connector *pkghttp.Connector
	schemas   responseSchemas
}

func NewConnector(cfg config.BackendConnectorConfig, logger *zap.Logger) (*Connector, error) {
	c := &Connector{
		config:    cfg,
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
	}

	if cfg.ValidateSchema {
		schemas, err := loadSchemas()
		if err != nil {
			return nil, err
		}
		c.schemas = schemas
	}

	return c, nil
}

// BaseURL returns the backend address, used in connectivity notices
func (c *Connector) BaseURL() string {
	return c.connector.BaseURL()
}

// DownloadURL resolves the download endpoint for an artifact reference
func (c *Connector) DownloadURL(ref string) string {
	return c.connector.BaseURL() + c.downloadEndpoint(ref)
}

func (c *Connector) downloadEndpoint(ref string) string {
	return strings.Replace(c.config.DownloadEndpoint, artifactPlaceholder, url.PathEscape(ref), 1)
}

// Upload sends the files for text extraction
// POST {upload_endpoint} with multipart/form-data, one files[] part per file
func (c *Connector) Upload(ctx context.Context, files []entity.SelectedFile) ([]entity.ExtractedText, error) {
	ctxzap.Info(ctx, "uploading files to backend", zap.Int("file_count", len(files)))

	prepareBody := func(writer *multipart.Writer) error {
		for _, file := range files {
			if err := writeFilePart(writer, file); err != nil {
				return err
			}
		}
		return nil
	}

	var resp entity.UploadResponse
	err := c.call(ctx, schemaUpload, notSent, &resp, func(raw *json.RawMessage) error {
		return c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, raw)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to upload files", zap.Error(err))
		return nil, err
	}

	if !resp.Success {
		return nil, &entity.ApplicationError{Message: resp.Error, StatusCode: http.StatusOK}
	}

	texts := resp.Data
	if texts == nil {
		texts = []entity.ExtractedText{}
	}

	ctxzap.Info(ctx, "files processed by backend",
		zap.Int("text_count", len(texts)),
		zap.String("message", resp.Message),
	)
	return texts, nil
}

func writeFilePart(writer *multipart.Writer, file entity.SelectedFile) error {
	if file.Source == nil {
		return fmt.Errorf("%w: %s has no content", entity.ErrInvalidFile, file.Name)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", multipart.FileContentDisposition(UploadField, file.Name))
	h.Set("Content-Type", file.ContentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}

	src, err := file.Source.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer src.Close()

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("write file content: %w", err)
	}
	return nil
}

// Predict sends the extracted texts and returns the predicted paper
// POST {predict_endpoint} with {"texts": [...]}
func (c *Connector) Predict(ctx context.Context, texts []string) (*entity.PredictionResult, error) {
	ctxzap.Info(ctx, "requesting prediction from backend", zap.Int("text_count", len(texts)))

	req := entity.PredictRequest{Texts: texts}

	var resp entity.PredictResponse
	err := c.call(ctx, schemaPredict, notSent, &resp, func(raw *json.RawMessage) error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.PredictEndpoint, req, raw)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to get prediction", zap.Error(err))
		return nil, err
	}

	if !resp.Success {
		return nil, &entity.ApplicationError{Message: resp.Error, StatusCode: http.StatusOK}
	}
	if resp.PredictedPaper == nil {
		return nil, &entity.TransportError{Err: errors.New("prediction response without predicted_paper")}
	}

	ctxzap.Info(ctx, "prediction received",
		zap.Int("question_count", resp.PredictedPaper.QuestionCount()),
		zap.String("artifact", resp.PDFPath),
	)

	return &entity.PredictionResult{
		Paper:   *resp.PredictedPaper,
		PDFPath: resp.PDFPath,
	}, nil
}

// Download streams the artifact into w and returns the number of bytes written
// GET {download_endpoint} with {artifact} substituted
func (c *Connector) Download(ctx context.Context, ref string, w io.Writer) (int64, error) {
	ctxzap.Info(ctx, "downloading artifact", zap.String("artifact", ref))

	n, _, err := c.connector.DoStream(ctx, c.downloadEndpoint(ref), w)
	if err != nil {
		ctxzap.Error(ctx, "failed to download artifact", zap.Error(err))
		return n, classify(err)
	}

	ctxzap.Debug(ctx, "artifact downloaded", zap.Int64("bytes", n))
	return n, nil
}

// Login checks credentials and returns the account on success
// POST {login_endpoint} with {"email", "password"}
func (c *Connector) Login(ctx context.Context, email, password string) (*entity.Account, error) {
	req := entity.LoginRequest{Email: email, Password: password}

	var resp entity.LoginResponse
	err := c.call(ctx, schemaLogin, isRetryable, &resp, func(raw *json.RawMessage) error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.LoginEndpoint, req, raw)
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &entity.ApplicationError{Message: resp.Error, StatusCode: http.StatusOK}
	}
	if resp.User == nil {
		return nil, &entity.TransportError{Err: errors.New("login response without user")}
	}

	ctxzap.Info(ctx, "logged in", zap.String("account_id", string(resp.User.ID)))
	return resp.User, nil
}

// Register creates an account and returns the backend's confirmation message
// POST {register_endpoint} with {"username", "email", "password"}
func (c *Connector) Register(ctx context.Context, req entity.RegisterRequest) (string, error) {
	var resp entity.RegisterResponse
	err := c.call(ctx, schemaRegister, notSent, &resp, func(raw *json.RawMessage) error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.RegisterEndpoint, req, raw)
	})
	if err != nil {
		return "", err
	}

	if !resp.Success {
		return "", &entity.ApplicationError{Message: resp.Error, StatusCode: http.StatusOK}
	}

	return resp.Message, nil
}

// call runs do, retrying the errors retryIf accepts, validates the raw body
// against the named schema and decodes it into out. Returned errors are
// ApplicationError or TransportError.
func (c *Connector) call(ctx context.Context, schema string, retryIf func(error) bool, out any, do func(raw *json.RawMessage) error) error {
	var raw json.RawMessage

	err := pkgRetry.Do(ctx, &c.config.Retry, retryIf, func() error {
		raw = nil
		return do(&raw)
	})
	if err != nil {
		return classify(err)
	}

	if len(raw) == 0 {
		return &entity.TransportError{Err: errors.New("empty response body")}
	}

	if c.schemas != nil {
		if err := c.schemas.validate(schema, raw); err != nil {
			return &entity.TransportError{Err: err}
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &entity.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr *pkghttp.NetworkError
	return errors.As(err, &netErr)
}

// notSent accepts only failures that happened before the request reached the
// backend. Upload, predict and register are not idempotent: a response
// timeout or a dropped connection may follow a request the backend already
// acted on, so those are not repeated.
func notSent(err error) bool {
	if !isRetryable(err) {
		return false
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// classify maps transport-level errors to the workflow's error taxonomy.
// A non-2xx status whose body is a JSON object is the backend reporting a
// failure; anything else means the backend could not be talked to.
func classify(err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		var envelope entity.ErrorEnvelope
		if json.Unmarshal([]byte(httpErr.Message), &envelope) == nil {
			return &entity.ApplicationError{Message: envelope.Error, StatusCode: httpErr.StatusCode}
		}
	}

	return &entity.TransportError{Err: err}
}
