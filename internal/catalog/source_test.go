package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestHTTPSource_Fetch(t *testing.T) {
	var gotQuery, gotCache, gotPragma string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("t")
		gotCache = r.Header.Get("Cache-Control")
		gotPragma = r.Header.Get("Pragma")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleFeed)
	}))
	t.Cleanup(ts.Close)

	src := NewHTTPSource(ts.URL+"/precos.json", time.Second)
	src.now = func() time.Time { return time.UnixMilli(1700000000123) }

	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("records=%d", len(records))
	}
	if gotQuery != "1700000000123" {
		t.Fatalf("cache buster=%q", gotQuery)
	}
	if gotCache != "no-cache" || gotPragma != "no-cache" {
		t.Fatalf("cache headers: cache-control=%q pragma=%q", gotCache, gotPragma)
	}
}

func TestHTTPSource_KeepsExistingQuery(t *testing.T) {
	src := NewHTTPSource("https://feed.example/precos.json?store=2", time.Second)
	src.now = func() time.Time { return time.UnixMilli(42) }

	u, err := src.bustedURL()
	if err != nil {
		t.Fatalf("bustedURL: %v", err)
	}
	if !strings.Contains(u, "store=2") || !strings.Contains(u, "t=42") {
		t.Fatalf("url=%s", u)
	}
}

func TestHTTPSource_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(ts.Close)

	_, err := NewHTTPSource(ts.URL, time.Second).Fetch(context.Background())
	if !errors.Is(err, ErrFeedBadStatus) {
		t.Fatalf("err=%v want ErrFeedBadStatus", err)
	}
}

func TestHTTPSource_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewHTTPSource(url, time.Second).Fetch(context.Background())
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("err=%v want ErrFeedUnavailable", err)
	}
}

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source_Fetch(t *testing.T) {
	fake := &fakeS3{body: sampleFeed}
	src := newS3Source(fake, "dadosloja", "precos.json")

	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("records=%d", len(records))
	}
	if aws.ToString(fake.input.Bucket) != "dadosloja" || aws.ToString(fake.input.Key) != "precos.json" {
		t.Fatalf("input bucket=%q key=%q", aws.ToString(fake.input.Bucket), aws.ToString(fake.input.Key))
	}
}

func TestS3Source_Error(t *testing.T) {
	src := newS3Source(&fakeS3{err: errors.New("access denied")}, "b", "k")

	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("err=%v want ErrFeedUnavailable", err)
	}
}
