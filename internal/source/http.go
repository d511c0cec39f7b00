// Package source implements the record sources the dashboard can load from.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

// maxBody caps the size of an HTTP response body.
const maxBody = 64 << 20

// HTTPSource fetches a JSON array of records from the records service.
type HTTPSource struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPSource returns a source for url. A nil client selects http.DefaultClient.
func NewHTTPSource(url string, client *http.Client, timeout time.Duration) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client, timeout: timeout}
}

func (s *HTTPSource) Name() string { return "http " + s.url }

// Fetch performs a single GET. Any non-2xx status or undecodable body is a
// *core.DataFetchError; nothing is retried.
func (s *HTTPSource) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &core.DataFetchError{Source: "http", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &core.DataFetchError{Source: "http", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &core.DataFetchError{Source: "http", Status: resp.StatusCode}
	}

	records, err := decodeRecords(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &core.DataFetchError{Source: "http", Status: resp.StatusCode, Err: err}
	}
	return records, nil
}

// decodeRecords reads a JSON array of records.
func decodeRecords(r io.Reader) ([]core.RawRecord, error) {
	var records []core.RawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}
