package recs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPIndex talks to the search provider's REST surface:
//
//	POST {base}/indexes/{index}/batch   {"objects": [Doc]}
//	POST {base}/indexes/{index}/query   QuerySpec -> {"hits": [Doc]}
//	POST {base}/recommend               {"model": m, "limit": n} -> {"results": [Doc]}
//
// App id and key travel as headers on every call.
type HTTPIndex struct {
	BaseURL   string
	AppID     string
	APIKey    string
	IndexName string
	Client    *http.Client
}

func NewHTTPIndex(baseURL, appID, apiKey, indexName string) *HTTPIndex {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &HTTPIndex{
		BaseURL:   baseURL,
		AppID:     appID,
		APIKey:    apiKey,
		IndexName: indexName,
		Client:    &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *HTTPIndex) SaveObjects(ctx context.Context, docs []Doc) error {
	path := fmt.Sprintf("/indexes/%s/batch", url.PathEscape(c.IndexName))
	return c.post(ctx, path, map[string]any{"objects": docs}, nil)
}

func (c *HTTPIndex) Query(ctx context.Context, q QuerySpec) ([]Doc, error) {
	path := fmt.Sprintf("/indexes/%s/query", url.PathEscape(c.IndexName))

	var resp struct {
		Hits []Doc `json:"hits"`
	}
	if err := c.post(ctx, path, q, &resp); err != nil {
		return nil, err
	}
	return resp.Hits, nil
}

func (c *HTTPIndex) Recommend(ctx context.Context, model string, n int) ([]Doc, error) {
	var resp struct {
		Results []Doc `json:"results"`
	}
	err := c.post(ctx, "/recommend", map[string]any{"model": model, "limit": n}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *HTTPIndex) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Id", c.AppID)
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrIndexUnavailable
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return ErrIndexUnavailable
		}
		return ErrIndexUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrIndexBadStatus, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
