package places

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/time/rate"

	"hotel_attractions/internal/adapters/observability"
	"hotel_attractions/internal/domain"
)

// DialFunc opens the transport to addr. The default dials TLS.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Client talks to the Places text search endpoint over a hand-framed
// HTTP/1.1 exchange: one fresh connection per request, read until EOF.
type Client struct {
	host    string
	port    string
	key     string
	timeout time.Duration
	tlsCfg  *tls.Config
	dial    DialFunc
	rl      *rate.Limiter
}

type Option func(*Client)

// WithAddr overrides the remote host and port (tests, proxies).
func WithAddr(host, port string) Option {
	return func(c *Client) { c.host, c.port = host, port }
}

func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) { c.tlsCfg = cfg }
}

// WithDialer replaces the TLS dialer entirely.
func WithDialer(d DialFunc) Option {
	return func(c *Client) { c.dial = d }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithRPS(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.rl = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

func New(key string, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, domain.ErrMissingCredential
	}
	c := &Client{
		host:    DefaultHost,
		port:    "443",
		key:     key,
		timeout: 20 * time.Second,
		rl:      rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, o := range opts {
		o(c)
	}
	if c.dial == nil {
		c.dial = c.dialTLS
	}
	return c, nil
}

func (c *Client) NearbyAttractions(ctx context.Context, h domain.Hotel, radiusMeters float64) ([]domain.Attraction, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	target := SearchPath + "?" + SearchQuery(h, radiusMeters, c.key)
	start := time.Now()
	raw, err := c.roundTrip(ctx, target)
	status := statusCode(raw)
	observability.ObserveExternal("places", "textsearch", status, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("places: hotel %s: %w", h.ID, err)
	}

	body := Payload(raw)
	if body == nil {
		return nil, fmt.Errorf("%w (hotel %s, status %d)", ErrNoPayload, h.ID, status)
	}
	as, err := ParseResults(body)
	if err != nil {
		return nil, fmt.Errorf("places: hotel %s: %w", h.ID, err)
	}
	return as, nil
}

// roundTrip writes one framed request and returns the whole raw response.
// The connection is closed on every path.
func (c *Client) roundTrip(ctx context.Context, target string) ([]byte, error) {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	conn, err := c.dial(dctx, "tcp", net.JoinHostPort(c.host, c.port))
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// unblock reads if ctx is canceled mid-exchange
	stop := context.AfterFunc(dctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(FrameRequest(c.host, target)); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush request: %w", err)
	}

	raw, err := io.ReadAll(bufio.NewReader(conn))
	if err != nil {
		if ctx.Err() != nil {
			return raw, ctx.Err()
		}
		return raw, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func (c *Client) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	cfg := c.tlsCfg
	if cfg == nil {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	d := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.timeout},
		Config:    cfg,
	}
	return d.DialContext(ctx, network, addr)
}

var _ domain.PlacesClient = (*Client)(nil)
