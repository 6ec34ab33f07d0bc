package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

type apiLoader struct{}

func (apiLoader) Type() string { return "api" }

func (apiLoader) Detect(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (apiLoader) Load(ctx context.Context, d Descriptor) (*dataset.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	if len(d.Params) > 0 {
		q := req.URL.Query()
		for k, v := range d.Params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch: unexpected status %s: %s", resp.Status, string(b))
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if d.JSONPath != "" {
		doc, err = walkPath(doc, d.JSONPath)
		if err != nil {
			return nil, err
		}
	}
	records, err := extractRecords(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Source, err)
	}
	return recordsToDataset(records)
}

// walkPath follows a dotted key path into nested JSON objects.
func walkPath(doc any, path string) (any, error) {
	cur := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("json_path %q: %q is not an object", path, key)
		}
		cur, ok = obj[key]
		if !ok {
			return nil, fmt.Errorf("json_path %q: key %q not found", path, key)
		}
	}
	return cur, nil
}
