// Package relay delivers a finished intake to a web3forms style form relay
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"taxintake/internal/core/intake"
	perr "taxintake/internal/platform/errors"
	"taxintake/internal/platform/logger"
)

const (
	defaultURL       = "https://api.web3forms.com/submit"
	defaultTimeout   = 15 * time.Second
	defaultUA        = "taxintake-relay"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxBackoff       = 10 * time.Second
)

// Options configures the Client
type Options struct {
	URL       string
	AccessKey string
	UserAgent string
	Subject   string
	Timeout   time.Duration

	// MaxRetries bounds retries of 429s and of connections that never
	// opened. a request the relay may have received is never sent twice
	MaxRetries int
	RetryBase  time.Duration
}

// Payload is one submission: the flattened form plus tax figures, and the
// plain text message body
type Payload struct {
	Fields  []intake.Field
	Message string
}

// Result is the relay's answer to an accepted submission
type Result struct {
	Message  string `json:"message"`
	Attempts int    `json:"attempts"`
}

// Client posts multipart forms to the relay
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Client, filling defaults
func New(o Options) *Client {
	if o.URL == "" {
		o.URL = defaultURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("relay"),
		sleep: sleepCtx,
	}
}

type answer struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit posts p. success=false from the relay is ErrorCodeUpstream carrying
// the relay's message. dial failures are retried, other transport errors and
// 5xx become ErrorCodeUnavailable at once, exhausted 429s ErrorCodeTooManyRequests
func (c *Client) Submit(ctx context.Context, p Payload) (Result, error) {
	body, ctype, err := c.encode(p)
	if err != nil {
		return Result{}, perr.Wrap(err, perr.ErrorCodeUnknown, "relay encode failed")
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "relay cancelled")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(body))
		if err != nil {
			return Result{}, perr.Wrap(err, perr.ErrorCodeUnknown, "relay new request failed")
		}
		req.Header.Set("Content-Type", ctype)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.opts.UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if !neverSent(err) || attempt >= c.opts.MaxRetries {
				return Result{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "relay unreachable")
			}
			if err := c.retry(ctx, attempt, 0, "relay dial failed retrying", err); err != nil {
				return Result{}, err
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header)
			drain(resp.Body)
			if attempt >= c.opts.MaxRetries {
				return Result{}, perr.TooManyRequestsf("relay rate limited")
			}
			if err := c.retry(ctx, attempt, wait, "relay rate limited backing off", nil); err != nil {
				return Result{}, err
			}
			continue
		case resp.StatusCode >= http.StatusInternalServerError:
			drain(resp.Body)
			return Result{}, perr.Unavailablef("relay server error %d", resp.StatusCode)
		}

		var a answer
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
		if err := json.Unmarshal(raw, &a); err != nil {
			return Result{}, perr.Upstreamf("relay answered %d with unreadable body", resp.StatusCode)
		}
		c.log.Debug().Int("status", resp.StatusCode).Bool("success", a.Success).Int("attempt", attempt).Msg("relay response")
		if !a.Success {
			msg := a.Message
			if msg == "" {
				msg = "relay rejected the submission"
			}
			return Result{}, perr.Upstreamf("%s", msg)
		}
		return Result{Message: a.Message, Attempts: attempt + 1}, nil
	}
}

// encode writes access_key, every field, then message, in that order
func (c *Client) encode(p Payload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	write := func(k, v string) error { return w.WriteField(k, v) }

	if err := write("access_key", c.opts.AccessKey); err != nil {
		return nil, "", err
	}
	if c.opts.Subject != "" {
		if err := write("subject", c.opts.Subject); err != nil {
			return nil, "", err
		}
	}
	for _, f := range p.Fields {
		if err := write(f.Key, f.Value); err != nil {
			return nil, "", err
		}
	}
	if err := write("message", p.Message); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func (c *Client) retry(ctx context.Context, attempt int, wait time.Duration, msg string, err error) error {
	if wait <= 0 {
		wait = c.backoff(attempt)
	}
	c.log.Warn().Err(err).Dur("retry_in", wait).Int("attempt", attempt).Msg(msg)
	if err := c.sleep(ctx, wait); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "relay cancelled")
	}
	return nil
}

// neverSent reports a failure to open the connection, after which the relay
// cannot have seen the form
func neverSent(err error) bool {
	var op *net.OpError
	return errors.As(err, &op) && op.Op == "dial"
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff doubles RetryBase per attempt up to maxBackoff
func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(min(attempt, 16))
	return min(d, maxBackoff)
}
