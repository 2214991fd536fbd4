package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Mineru parses PDFs through a Mineru server. The parse endpoint expects
// the file under the multipart field name "files".
type Mineru struct {
	client    *http.Client
	parsePath string
}

func NewMineru(parsePath string, timeout time.Duration) *Mineru {
	if parsePath == "" {
		parsePath = "/file_parse"
	}
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	return &Mineru{
		client:    &http.Client{Timeout: timeout},
		parsePath: parsePath,
	}
}

// Parse uploads inputPath and returns the backend's JSON payload,
// normalized (see normalize). Non-JSON bodies are wrapped as {"text": ...}.
func (m *Mineru) Parse(ctx context.Context, baseURL, inputPath string) (json.RawMessage, error) {
	url := strings.TrimRight(baseURL, "/") + m.parsePath

	resp, err := postFile(ctx, m.client, url, "files", inputPath, nil)
	if err != nil {
		return nil, fmt.Errorf("mineru request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("mineru returned HTTP %d: %s", resp.StatusCode, readBodyPrefix(resp.Body, 512))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read mineru response: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		wrapped, err := json.Marshal(map[string]string{"text": string(body)})
		if err != nil {
			return nil, err
		}
		return wrapped, nil
	}

	normalize(payload)

	out, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// normalize lifts Mineru's md_content out of a single-entry "results"
// mapping into a top-level "md_result" string. A "results" that is already
// a plain string moves to "md_result" as-is.
func normalize(payload map[string]any) {
	results, ok := payload["results"]
	if !ok {
		return
	}

	switch v := results.(type) {
	case map[string]any:
		if len(v) != 1 {
			return
		}
		for _, entry := range v {
			inner, ok := entry.(map[string]any)
			if !ok {
				return
			}
			md, ok := inner["md_content"]
			if !ok {
				return
			}
			payload["md_result"] = md
			delete(payload, "results")
		}
	case string:
		payload["md_result"] = v
		delete(payload, "results")
	}
}
