package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"taxintake/internal/core/intake"
	perr "taxintake/internal/platform/errors"
)

func newTestClient(url string, retries int) (*Client, *[]time.Duration) {
	c := New(Options{URL: url, AccessKey: "key-1", MaxRetries: retries, RetryBase: 100 * time.Millisecond})
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestSubmitSendsMultipart(t *testing.T) {
	var keys []string
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
		}
		got = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got[k] = v[0]
		}
		keys = nil
		for k := range r.MultipartForm.Value {
			keys = append(keys, k)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Email sent successfully!"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, -1)
	p := Payload{
		Fields: []intake.Field{
			{Key: "personal_firstName", Value: "Ada"},
			{Key: "tax_total", Value: "$34,650.00"},
		},
		Message: "Tax Calculation Summary:",
	}
	res, err := c.Submit(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Message != "Email sent successfully!" || res.Attempts != 1 {
		t.Fatalf("result %+v", res)
	}
	want := map[string]string{
		"access_key":         "key-1",
		"personal_firstName": "Ada",
		"tax_total":          "$34,650.00",
		"message":            "Tax Calculation Summary:",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %q want %q", k, got[k], v)
		}
	}
	if len(keys) != len(want) {
		t.Fatalf("unexpected extra fields %v", keys)
	}
}

func TestEncodeOrder(t *testing.T) {
	c := New(Options{AccessKey: "k", Subject: "New intake"})
	body, ctype, err := c.encode(Payload{Fields: []intake.Field{{Key: "a", Value: "1"}}, Message: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if ctype == "" {
		t.Fatal("content type missing")
	}
	s := string(body)
	order := []string{`name="access_key"`, `name="subject"`, `name="a"`, `name="message"`}
	last := -1
	for _, needle := range order {
		i := strings.Index(s, needle)
		if i <= last {
			t.Fatalf("%s out of order in %q", needle, s)
		}
		last = i
	}
}

func TestSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid access key"}`))
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL, 3)
	_, err := c.Submit(context.Background(), Payload{})
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream, got %v", err)
	}
	if e, _ := perr.As(err); e.Message() != "Invalid access key" {
		t.Fatalf("message %q", e.Message())
	}
	if len(*slept) != 0 {
		t.Fatal("rejections are not retried")
	}
}

func TestSubmitUnreadableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, 0)
	if _, err := c.Submit(context.Background(), Payload{}); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream, got %v", err)
	}
}

func TestSubmit5xxNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL, 3)
	_, err := c.Submit(context.Background(), Payload{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if calls.Load() != 1 || len(*slept) != 0 {
		t.Fatalf("calls %d slept %v", calls.Load(), *slept)
	}
}

func TestSubmitSlowRelayGetsOneCopy(t *testing.T) {
	var copies atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		copies.Add(1)
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"late"}`))
	}))
	defer srv.Close()
	defer close(release)

	c := New(Options{URL: srv.URL, AccessKey: "k", Timeout: 50 * time.Millisecond, MaxRetries: 2, RetryBase: time.Millisecond})
	_, err := c.Submit(context.Background(), Payload{Message: "m"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if n := copies.Load(); n != 1 {
		t.Fatalf("relay received %d copies", n)
	}
}

func TestSubmitCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(Options{URL: srv.URL, MaxRetries: 3})
	start := time.Now()
	_, err := c.Submit(ctx, Payload{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if el := time.Since(start); el > time.Second {
		t.Fatalf("backoff ignored cancellation, took %v", el)
	}
}

func TestSubmit429UsesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL, 1)
	_, err := c.Submit(context.Background(), Payload{})
	if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("want too many requests, got %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
		t.Fatalf("slept %v", *slept)
	}
}

func TestSubmitDialErrorRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, slept := newTestClient(url, 1)
	_, err := c.Submit(context.Background(), Payload{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if len(*slept) != 1 {
		t.Fatalf("one retry expected, slept %v", *slept)
	}
}

func TestSubmitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := newTestClient("http://127.0.0.1:1", 3)
	if _, err := c.Submit(ctx, Payload{}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestBackoffCaps(t *testing.T) {
	c := New(Options{RetryBase: time.Second})
	if got := c.backoff(0); got != time.Second {
		t.Fatalf("attempt 0 = %v", got)
	}
	if got := c.backoff(10); got != maxBackoff {
		t.Fatalf("attempt 10 = %v", got)
	}
}

func TestRetryAfter(t *testing.T) {
	cases := map[string]time.Duration{
		"":                              0,
		"3":                             3 * time.Second,
		"-1":                            0,
		"3600":                          maxBackoff,
		"Wed, 21 Oct 2015 07:28:00 GMT": 0,
	}
	for in, want := range cases {
		h := http.Header{}
		h.Set("Retry-After", in)
		if got := retryAfter(h); got != want {
			t.Fatalf("%q = %v want %v", in, got, want)
		}
	}
}
