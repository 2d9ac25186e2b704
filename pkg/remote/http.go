package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spgit/spgit/pkg/item"
)

// HTTPOptions configures an HTTPCatalog client.
type HTTPOptions struct {
	Timeout     time.Duration // HTTP client timeout (default 60s)
	MaxAttempts int           // retry attempts (default 3)
}

// HTTPCatalog is a RemoteList backed by an HTTP ordered-list catalog
// service. Credentials resolve from SPGIT_TOKEN (Bearer) or
// SPGIT_USERNAME/SPGIT_PASSWORD (Basic).
type HTTPCatalog struct {
	baseURL     string
	httpClient  *http.Client
	token       string
	user        string
	pass        string
	maxAttempts int
}

// NewHTTPCatalog builds a catalog client against baseURL with default options.
func NewHTTPCatalog(baseURL string) (*HTTPCatalog, error) {
	return NewHTTPCatalogWithOptions(baseURL, HTTPOptions{})
}

// NewHTTPCatalogWithOptions builds a catalog client with explicit options.
// Zero-value fields receive defaults (60s timeout, 3 attempts).
func NewHTTPCatalogWithOptions(baseURL string, opts HTTPOptions) (*HTTPCatalog, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}

	return &HTTPCatalog{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		token:       strings.TrimSpace(os.Getenv("SPGIT_TOKEN")),
		user:        strings.TrimSpace(os.Getenv("SPGIT_USERNAME")),
		pass:        os.Getenv("SPGIT_PASSWORD"),
		maxAttempts: opts.MaxAttempts,
	}, nil
}

func (c *HTTPCatalog) FetchItems(ctx context.Context, listID string) ([]item.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lists/"+url.PathEscape(listID)+"/items", nil)
	if err != nil {
		return nil, wrapErr("fetch items", err)
	}
	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, wrapErr("fetch items", err)
	}

	var resp struct {
		Items []item.Item `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapErr("fetch items", fmt.Errorf("decode response: %w", err))
	}
	return resp.Items, nil
}

func (c *HTTPCatalog) ReplaceItems(ctx context.Context, listID string, items []item.Item) error {
	payload, err := json.Marshal(struct {
		Items []item.Item `json:"items"`
	}{Items: items})
	if err != nil {
		return wrapErr("replace items", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/lists/"+url.PathEscape(listID)+"/items", bytes.NewReader(payload))
	if err != nil {
		return wrapErr("replace items", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req, http.StatusOK); err != nil {
		return wrapErr("replace items", err)
	}
	return nil
}

func (c *HTTPCatalog) ResolveURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/resolve?url="+url.QueryEscape(rawURL), nil)
	if err != nil {
		return "", wrapErr("resolve url", err)
	}
	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return "", wrapErr("resolve url", err)
	}
	var resp struct {
		ListID string `json:"list_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", wrapErr("resolve url", fmt.Errorf("decode response: %w", err))
	}
	return resp.ListID, nil
}

func (c *HTTPCatalog) CreateList(ctx context.Context, name string) (string, error) {
	payload, err := json.Marshal(struct {
		Name string `json:"name"`
	}{Name: name})
	if err != nil {
		return "", wrapErr("create list", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/lists", bytes.NewReader(payload))
	if err != nil {
		return "", wrapErr("create list", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, http.StatusCreated)
	if err != nil {
		return "", wrapErr("create list", err)
	}
	var resp struct {
		ListID string `json:"list_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", wrapErr("create list", fmt.Errorf("decode response: %w", err))
	}
	return resp.ListID, nil
}

func (c *HTTPCatalog) do(req *http.Request, expectedStatus int) ([]byte, error) {
	c.applyAuth(req)
	req.Header.Set("Accept-Encoding", "zstd")

	resp, err := retryDo(c.httpClient, req, c.maxAttempts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}
	if isZstdEncoded(resp.Header.Get("Content-Encoding")) {
		body, err = decompressZstd(body)
		if err != nil {
			return nil, fmt.Errorf("decompress response: %w", err)
		}
	}

	if resp.StatusCode != expectedStatus {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("catalog request failed (%s %s): %s", req.Method, req.URL.Path, msg)
	}
	return body, nil
}

func (c *HTTPCatalog) applyAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
		return
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}
}
