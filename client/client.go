// Package client is the Go SDK for the memories service. It talks to the
// remote REST API and keeps a SQLite fallback store on disk; when the remote
// service is unreachable, writes land in the fallback store so the
// application keeps working offline.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
	"github.com/KIDDASS/memories-instagram-app/internal/platform/logger"
	"github.com/KIDDASS/memories-instagram-app/internal/store/sqlite"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultProbeInterval = 15 * time.Second
)

// Session identifies the acting user on calls that need one. It is obtained
// from Login (or constructed directly in tests); the client holds no ambient
// current-user state.
type Session struct {
	UserID   int64
	Username string
	Role     string
	Token    string
}

type options struct {
	timeout       time.Duration
	probeInterval time.Duration
	localPath     string
	httpClient    *http.Client
	logger        *zerolog.Logger
}

// Option customises client construction.
type Option func(*options)

// WithTimeout sets the per-request timeout for remote calls.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithProbeInterval sets how often the client re-checks a lost remote.
func WithProbeInterval(d time.Duration) Option {
	return func(o *options) { o.probeInterval = d }
}

// WithLocalPath overrides where the fallback database lives.
func WithLocalPath(path string) Option {
	return func(o *options) { o.localPath = path }
}

// WithHTTPClient supplies the underlying HTTP client, e.g. one with custom
// transport settings or a test server's client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger replaces the default logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.logger = &log }
}

// Client is the dual-path controller: every operation is served by the remote
// store when it is reachable and by the local fallback store otherwise. Both
// paths run the same domain services, so validation and invariants hold no
// matter which side answers.
type Client struct {
	remote  *remoteStore
	local   *memory.Service
	users   *user.Service
	monitor *monitor
	log     zerolog.Logger

	localCloser io.Closer
	cancel      context.CancelFunc
	closed      uint32
}

// New builds a client for the service at baseURL and opens the local
// fallback store.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := options{
		timeout:       defaultTimeout,
		probeInterval: defaultProbeInterval,
	}
	for _, fn := range opts {
		fn(&o)
	}

	log := logger.New("memories-client")
	if o.logger != nil {
		log = *o.logger
	}

	rest := resty.New()
	if o.httpClient != nil {
		rest = resty.NewWithClient(o.httpClient)
	}
	rest.SetBaseURL(baseURL).
		SetTimeout(o.timeout).
		SetHeader("Content-Type", "application/json")

	dbPath := o.localPath
	if dbPath == "" {
		p, err := defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve fallback path: %w", err)
		}
		dbPath = p
	}

	localStore, err := sqlite.New(context.Background(), dbPath)
	if err != nil {
		return nil, fmt.Errorf("open fallback store: %w", err)
	}

	remote := newRemoteStore(rest)
	mon := newMonitor(remote, log)
	ctx, cancel := context.WithCancel(context.Background())
	go mon.Start(ctx, o.probeInterval)

	c := &Client{
		remote:  remote,
		local:   memory.NewService(localStore),
		users:   user.NewService(localStore, log),
		monitor: mon,
		log:     log,
		cancel:  cancel,
	}
	if closer, ok := localStore.(io.Closer); ok {
		c.localCloser = closer
	}
	return c, nil
}

// ConnState reports the client's current view of the remote service.
func (c *Client) ConnState() ConnState { return c.monitor.State() }

// Close stops the availability probe and releases the fallback store.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closed, 0, 1) {
		return nil
	}
	c.cancel()
	if c.localCloser != nil {
		return c.localCloser.Close()
	}
	return nil
}
