// internal/update/fetch.go

package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	apperrors "customTools/internal/error"
	"customTools/internal/models"

	"github.com/sethvargo/go-retry"
)

const (
	fetchAttempts = 3
	retryBase     = 500 * time.Millisecond
)

// Client downloads the version manifest and the repository archive.
type Client struct {
	httpClient  *http.Client
	manifestURL string
	archiveURL  string
	backoff     func() retry.Backoff
}

func NewClient(manifestURL, archiveURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		manifestURL: manifestURL,
		archiveURL:  archiveURL,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(fetchAttempts-1, retry.NewExponential(retryBase))
		},
	}
}

// get issues a GET and hands the body to read. Network errors and 5xx
// responses are retried; other statuses fail at once.
func (c *Client) get(ctx context.Context, url string, read func(io.Reader) error) error {
	return retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("error making request: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("%s returned status code %d", url, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned status code %d", url, resp.StatusCode)
		}
		return read(resp.Body)
	})
}

func (c *Client) FetchManifest(ctx context.Context) (*models.Manifest, error) {
	m := models.NewManifest()
	err := c.get(ctx, c.manifestURL, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(m); err != nil {
			return fmt.Errorf("error parsing response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.New(apperrors.UpdateError, "error checking for updates", err)
	}
	if m.Tools == nil {
		m.Tools = make(map[string]string)
	}
	return m, nil
}

// DownloadArchive writes the repository zip to dest.
func (c *Client) DownloadArchive(ctx context.Context, dest string) error {
	err := c.get(ctx, c.archiveURL, func(body io.Reader) error {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("error creating %s: %w", dest, err)
		}
		defer f.Close()

		if _, err := io.Copy(f, body); err != nil {
			return retry.RetryableError(fmt.Errorf("error downloading archive: %w", err))
		}
		return f.Sync()
	})
	if err != nil {
		return apperrors.New(apperrors.UpdateError, "error downloading repository", err)
	}
	return nil
}
