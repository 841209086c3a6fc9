// Package netx fetches object bodies from presigned URLs.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrTooLarge = errors.New("response body exceeds limit")

// httpClient is a test seam.
var httpClient = http.DefaultClient

// DownloadFromPresignedURL GETs url and returns at most limit bytes of body.
func DownloadFromPresignedURL(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrTooLarge
	}
	return body, nil
}
