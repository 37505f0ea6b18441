package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Source supplies the raw feed records in feed order.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

var (
	ErrFeedBadStatus   = errors.New("feed bad status")
	ErrFeedUnavailable = errors.New("feed unavailable")
)

const cacheBusterParam = "t"

type HTTPSource struct {
	URL    string
	Client *http.Client

	now func() time.Time
}

func NewHTTPSource(feedURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    feedURL,
		Client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Record, error) {
	target, err := s.bustedURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrFeedBadStatus, resp.StatusCode)
	}

	return DecodeFeed(resp.Body)
}

// bustedURL appends a millisecond timestamp so intermediate caches never
// answer with a stale feed.
func (s *HTTPSource) bustedURL() (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", err
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}

	q := u.Query()
	q.Set(cacheBusterParam, strconv.FormatInt(now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *HTTPSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}
