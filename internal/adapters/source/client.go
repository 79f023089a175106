// Package source fetches the fire and AQI payload from the data endpoint.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/okian/firewatch/internal/domain/model"
	"github.com/okian/firewatch/pkg/logger"
	"github.com/okian/firewatch/pkg/metrics"
)

// Default client settings.
const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
	maxBackoff         = 5 * time.Second
	maxBodyBytes       = 16 << 20
)

// Client fetches the dashboard dataset over HTTP.
type Client struct {
	url         string
	http        *http.Client
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
	log         logger.Logger
}

// New creates a client for the payload at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:         url,
		http:        &http.Client{},
		timeout:     defaultTimeout,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	return c
}

// URL returns the endpoint the client reads from.
func (c *Client) URL() string { return c.url }

// Fetch performs one logical fetch. Transport failures are retried with
// exponential backoff up to the configured number of attempts; application
// failures and 4xx responses are returned at once.
func (c *Client) Fetch(ctx context.Context) (model.Dataset, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFetchDuration(float64(time.Since(start).Milliseconds()))
	}()

	var ds model.Dataset
	attempt := 0
	op := func() error {
		attempt++
		metrics.RecordFetchAttempt()
		got, err := c.fetchOnce(ctx)
		if err != nil {
			return err
		}
		ds = got
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn(ctx, "fetch attempt failed, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("wait", wait),
			logger.Error(err))
	}

	if err := backoff.RetryNotify(op, c.policy(ctx), notify); err != nil {
		metrics.RecordFetchFailure(failureKind(err))
		return model.Dataset{}, err
	}
	metrics.UpdateDatasetRecords(len(ds.Fires), len(ds.AQI))
	return ds, nil
}

func (c *Client) policy(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	if c.backoff == 0 {
		b = &backoff.ZeroBackOff{}
	} else {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = c.backoff
		eb.MaxInterval = maxBackoff
		eb.MaxElapsedTime = 0
		b = eb
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxAttempts-1)), ctx)
}

func (c *Client) fetchOnce(ctx context.Context) (model.Dataset, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.url, nil)
	if err != nil {
		return model.Dataset{}, backoff.Permanent(fmt.Errorf("%w: build request: %w", ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		err := fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			return model.Dataset{}, backoff.Permanent(err)
		}
		return model.Dataset{}, err
	}

	var p model.Payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		return model.Dataset{}, backoff.Permanent(fmt.Errorf("%w: decode payload: %w", ErrTransport, err))
	}
	if !p.Succeeded() {
		msg := p.Message
		if msg == "" {
			msg = fmt.Sprintf("status %q", p.Status)
		}
		return model.Dataset{}, backoff.Permanent(fmt.Errorf("%w: %s", ErrApplication, msg))
	}
	return p.Dataset(), nil
}

// failureKind names the metric label of a failed fetch.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrApplication):
		return "application"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
