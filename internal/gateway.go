package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout      = 60 * time.Second
	DefaultMaxFileSize  = 10 << 20
	DefaultMaxBatchSize = 3
)

const (
	captionPath = "/generate-caption"
	batchPath   = "/batch-generate"
	healthPath  = "/health"
)

type (
	// GatewayConfig is read once at construction and never mutated. Zero
	// values fall back to the defaults above; only the base URL has to be
	// supplied.
	GatewayConfig struct {
		BaseURL      string
		Timeout      time.Duration
		MaxFileSize  int64
		MaxBatchSize int
	}

	// GatewayOption configures a Gateway beyond its static config.
	GatewayOption func(*Gateway)

	// Gateway submits images to the caption service and normalizes every
	// outcome into either a decoded result or a *GatewayError. It holds no
	// per-call state, so concurrent use is fine.
	Gateway struct {
		cfg  GatewayConfig
		http *http.Client
	}

	// CaptionOptions are the optional knobs for single-image captioning.
	// Zero values are omitted from the request.
	CaptionOptions struct {
		Method    string
		BeamWidth int
	}
)

// WithHTTPClient overrides the underlying *http.Client used for requests.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.http = c
	}
}

func NewGateway(cfg GatewayConfig, opts ...GatewayOption) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}

	g := &Gateway{cfg: cfg, http: &http.Client{}}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.http == nil {
		g.http = &http.Client{}
	}
	return g
}

// GenerateCaption validates the upload, then submits it for captioning with
// the optional method and beam width fields. Validation failures surface as a
// 400 *GatewayError before any network I/O happens.
func (g *Gateway) GenerateCaption(ctx context.Context, file Upload, opts *CaptionOptions) (*CaptionResult, error) {
	if violations := ValidateFile(file, g.cfg.MaxFileSize); len(violations) > 0 {
		return nil, &GatewayError{Message: strings.Join(violations, ", "), Status: http.StatusBadRequest}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := writeFilePart(w, "file", file); err != nil {
		return nil, err
	}
	if opts != nil {
		if opts.Method != "" {
			if err := w.WriteField("method", opts.Method); err != nil {
				return nil, err
			}
		}
		if opts.BeamWidth > 0 {
			if err := w.WriteField("beam_width", strconv.Itoa(opts.BeamWidth)); err != nil {
				return nil, err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	raw, err := g.do(ctx, http.MethodPost, captionPath, w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var result CaptionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode caption response: %w", err)
	}
	return &result, nil
}

// BatchGenerateCaptions submits up to the configured number of uploads in one
// request. Only the batch cardinality is checked here; per-file validation is
// left to the service, which reports per-file failures inside the result.
func (g *Gateway) BatchGenerateCaptions(ctx context.Context, files []Upload) (*BatchResult, error) {
	if len(files) == 0 {
		return nil, &GatewayError{Message: "No files provided", Status: http.StatusBadRequest}
	}
	if len(files) > g.cfg.MaxBatchSize {
		return nil, &GatewayError{
			Message: fmt.Sprintf("Max %d files allowed", g.cfg.MaxBatchSize),
			Status:  http.StatusBadRequest,
		}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, file := range files {
		if err := writeFilePart(w, "files", file); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	raw, err := g.do(ctx, http.MethodPost, batchPath, w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var result BatchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	return &result, nil
}

// CheckHealth probes the service. No validation applies.
func (g *Gateway) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	raw, err := g.do(ctx, http.MethodGet, healthPath, "", nil)
	if err != nil {
		return nil, err
	}

	var status HealthStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &status, nil
}

// do performs one call against the service with the configured deadline and
// normalizes the outcome: the raw body for 2xx responses, a *GatewayError for
// a timeout or a non-2xx status. The deadline's timer is released on every
// exit path. A decoded detail field from the error body wins over the generic
// "HTTP <status>" message.
func (g *Gateway) do(parent context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(parent, g.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, timeoutOr(parent, ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, timeoutOr(parent, ctx, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &GatewayError{Message: errorDetail(raw, resp.StatusCode), Status: resp.StatusCode}
	}
	return raw, nil
}

// timeoutOr maps a failure caused by the gateway's own timer to the reserved
// 408 error. If the caller's context is already done the failure is theirs —
// their deadline or cancellation — and passes through untranslated, as does
// any transport fault where no remote status exists to report.
func timeoutOr(parent, ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return &GatewayError{Message: "Request timeout", Status: http.StatusRequestTimeout}
	}
	return err
}

func errorDetail(raw []byte, status int) string {
	var parsed ErrorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return fmt.Sprintf("HTTP %d", status)
}

func writeFilePart(w *multipart.Writer, field string, file Upload) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	header.Set("Content-Type", file.ContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(file.Data)
	return err
}
