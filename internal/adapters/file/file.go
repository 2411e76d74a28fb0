package file

import (
	"context"
	"errors"
	"fishbot/internal/core/domain"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxDownloadSize caps the body read from any download.
const MaxDownloadSize = 16 << 20

type Downloader struct {
	client *http.Client
}

// NewDownloader returns a Downloader whose requests time out after timeout.
func NewDownloader(timeout time.Duration) *Downloader {
	return &Downloader{client: &http.Client{Timeout: timeout}}
}

// Download returns the byte content of a file on a provided URL. resource names
// the file in errors; logURL is the URL safe to log, e.g. without credentials.
func (d *Downloader) Download(ctx context.Context, resource, rawURL, logURL string) ([]byte, error) {
	l := log.With().Str("resource", resource).Str("path", logURL).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		l.Error().Err(err).Msg("error creating request")
		return nil, &domain.FetchError{Resource: resource, URL: logURL, Err: err}
	}

	res, err := d.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = logURL
		}
		l.Error().Err(err).Msg("error executing request")
		return nil, &domain.FetchError{Resource: resource, URL: logURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		l.Error().Int("status", res.StatusCode).Msg("unexpected status code on download")
		return nil, &domain.FetchError{Resource: resource, URL: logURL, StatusCode: res.StatusCode}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, MaxDownloadSize+1))
	if err != nil {
		l.Error().Err(err).Msg("error reading response")
		return nil, &domain.FetchError{Resource: resource, URL: logURL, Err: err}
	}

	if len(buf) > MaxDownloadSize {
		err = fmt.Errorf("response exceeds %d bytes", MaxDownloadSize)
		l.Error().Err(err).Send()
		return nil, &domain.FetchError{Resource: resource, URL: logURL, Err: err}
	}

	l.Debug().Int("bytes", len(buf)).Msg("downloaded file")

	return buf, nil
}
