package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/httputil"
	"github.com/matzehuels/mydungeon/pkg/observability"
)

// NumbersRequest is the body of POST /api/numbers.
type NumbersRequest struct {
	Birthdate string `json:"birthdate"`
	Birthtime string `json:"birthtime"`
}

// NumbersResponse is the reply of POST /api/numbers.
type NumbersResponse struct {
	Numbers []int  `json:"numbers"`
	Message string `json:"message"`
}

// HTTPFetcher asks a remote numbers endpoint. Transient failures (network
// errors, 429, 5xx) are retried with backoff.
type HTTPFetcher struct {
	endpoint string
	client   *http.Client
	logger   *log.Logger
}

// NewHTTPFetcher returns a fetcher posting to endpoint, for example
// "http://scraper:8000/api/numbers". A nil client gets a 60 second
// timeout.
func NewHTTPFetcher(endpoint string, client *http.Client, logger *log.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPFetcher{endpoint: endpoint, client: client, logger: logger}
}

// Source identifies the fetcher in cache keys.
func (f *HTTPFetcher) Source() string { return f.endpoint }

func (f *HTTPFetcher) FetchNumbers(ctx context.Context, birthdate, birthtime string) ([]int, error) {
	if err := errors.ValidateBirth(birthdate, birthtime); err != nil {
		return nil, err
	}
	body, err := json.Marshal(NumbersRequest{Birthdate: birthdate, Birthtime: birthtime})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "numbers endpoint %q", f.endpoint)
	}

	hooks := observability.HTTP()
	var out NumbersResponse
	err = httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		hooks.OnRequest(ctx, http.MethodPost, u.Host, u.Path)
		start := time.Now()
		resp, err := f.client.Do(req)
		if err != nil {
			hooks.OnError(ctx, http.MethodPost, u.Host, u.Path, err)
			f.logger.Debug("numbers request failed", "endpoint", f.endpoint, "err", err)
			return httputil.Retryable(err)
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, http.MethodPost, u.Host, u.Path, resp.StatusCode, time.Since(start))

		if err := httputil.CheckResponse(resp); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch numbers from %s", f.endpoint)
		}
		if httputil.IsRetryable(err) {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch numbers from %s", f.endpoint)
		}
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch numbers from %s", f.endpoint)
	}

	if out.Numbers == nil {
		out.Numbers = []int{}
	}
	if len(out.Numbers) == 0 {
		f.logger.Error("remote returned no numbers", "endpoint", f.endpoint, "message", out.Message)
	}
	return out.Numbers, nil
}
