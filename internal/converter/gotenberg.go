package converter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Gotenberg converts office documents to PDF through a Gotenberg server's
// LibreOffice route.
type Gotenberg struct {
	client *http.Client
}

func NewGotenberg(timeout time.Duration) *Gotenberg {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Gotenberg{client: &http.Client{Timeout: timeout}}
}

// Convert uploads inputPath with the given conversion options and writes
// the returned PDF to outputPath. Non-200 responses become errors carrying
// the status and a prefix of the body.
func (g *Gotenberg) Convert(ctx context.Context, baseURL, inputPath, outputPath string, options map[string]string) error {
	url := strings.TrimRight(baseURL, "/") + "/forms/libreoffice/convert"

	resp, err := postFile(ctx, g.client, url, "file", inputPath, options)
	if err != nil {
		return fmt.Errorf("gotenberg request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gotenberg returned HTTP %d: %s", resp.StatusCode, readBodyPrefix(resp.Body, 512))
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
