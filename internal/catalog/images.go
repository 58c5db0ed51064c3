package catalog

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var imageClient = &http.Client{Timeout: 30 * time.Second}

// FetchImage downloads the raw bytes behind a template image reference. The
// reference itself is never rewritten; rendering is someone else's job.
func FetchImage(ref string) ([]byte, error) {
	resp, err := imageClient.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("error fetching template image: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Warning: failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("template image fetch: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
