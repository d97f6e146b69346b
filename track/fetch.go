package track

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Fetch downloads and reads the gpx file at url. Bodies larger than MaxSize
// return ErrTooLarge.
func Fetch(ctx context.Context, client *http.Client, url string) ([]Track, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch track '%s': %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch track '%s': unexpected status %s", url, resp.Status)
	}

	log.Debugf("Fetched track '%s' (%d bytes)", url, resp.ContentLength)

	return Read(resp.Body)
}
