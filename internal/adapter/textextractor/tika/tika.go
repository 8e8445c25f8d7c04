// Package tika provides Apache Tika integration for resume text extraction.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironquill/assesspoint/internal/observability"
	"github.com/ironquill/assesspoint/pkg/textx"
)

// Client is a minimal Apache Tika HTTP client implementing domain.TextExtractor.
// It performs PUT /tika with Accept: text/plain against an uploaded document.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL    string
	httpClient *http.Client
	obs        *observability.IntegratedObservableClient
}

// New constructs a Tika client with a default timeout.
func New(baseURL string) *Client {
	obsClient := observability.NewIntegratedObservableClient(
		observability.ConnectionTypeTika,
		observability.OperationTypeExtract,
		baseURL,
		"tika",
		15*time.Second,
		5*time.Second,
		60*time.Second,
	)
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		obs:        obsClient,
	}
}

// Extract uploads data to the Tika server and returns sanitized plain text.
// fileName is used only to infer a best-effort Content-Type for the upload.
func (c *Client) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	var result string
	err := c.obs.ExecuteWithMetrics(ctx, "extract", func(callCtx context.Context) error {
		u := c.baseURL
		if u == "" {
			u = "http://localhost:9998"
		}
		req, err := http.NewRequestWithContext(callCtx, http.MethodPut, u+"/tika", bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "text/plain")
		if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
			req.Header.Set("Content-Type", ct)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("tika status %d", resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		sanitized := textx.SanitizeText(string(b))
		result = strings.Join(strings.Fields(sanitized), " ")
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func contentTypeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		if ext != "" {
			return mime.TypeByExtension(ext)
		}
	}
	return ""
}
