// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package vault is a read-only client of a vault-style secret store. The token
is resolved once, when client is created: first from the local token file, then
from the local agent. Secrets are fetched with a single GET request to
<address>/v1/<path> and unwrapped from the data.data envelope.

	cfg, err := vault.ConfigFromEnv()
	client, err := vault.New(ctx, cfg, vault.WithLogger(logger))

	secrets, err := vault.GetSecrets(ctx, client, "dev/myapp/kv/data/api",
	  vaultconf.StructSchema[Secrets](),
	)
*/
package vault

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/iph0/vaultconf"
	"github.com/iph0/vaultconf/urlbuilder"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const errPref = "vault"

var errMissingData = errors.New("data.data is missing")

// Client is a vault client with a resolved credential.
type Client struct {
	config     Config
	http       *resty.Client
	credential Credential
	logger     *zap.Logger
	metrics    *metrics
}

type options struct {
	logger     *zap.Logger
	httpClient *http.Client
	registerer prometheus.Registerer
	sources    []TokenSource
}

// Option configures client.
type Option func(*options)

// WithLogger option sets logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient option sets HTTP client used for the agent and the store.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithMetrics option registers counters in the registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithTokenSources option replaces token sources derived from configuration.
func WithTokenSources(sources ...TokenSource) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// New method creates client and resolves the credential. If no token source
// succeeds, BootstrapError is returned.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	cfg, err := cfg.WithDefaults()

	if err != nil {
		return nil, err
	}

	err = cfg.Validate()

	if err != nil {
		return nil, err
	}

	o := options{logger: zap.NewNop()}

	for _, opt := range opts {
		opt(&o)
	}

	m, err := newMetrics(o.registerer)

	if err != nil {
		return nil, fmt.Errorf("%s: %s", errPref, err)
	}

	var hc *resty.Client

	if o.httpClient != nil {
		hc = resty.NewWithClient(o.httpClient)
	} else {
		hc = resty.New()
	}

	hc.SetTimeout(cfg.Timeout)

	if cfg.InsecureSkipVerify {
		hc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}

	sources := o.sources

	if sources == nil {
		sources = cfg.TokenSources(hc)
	}

	resolver := &Resolver{
		Sources: sources,
		Logger:  o.logger,
		metrics: m,
	}

	credential, err := resolver.Resolve(ctx)

	if err != nil {
		return nil, err
	}

	return &Client{
		config:     cfg,
		http:       hc,
		credential: credential,
		logger:     o.logger,
		metrics:    m,
	}, nil
}

// Credential method returns the resolved credential.
func (c *Client) Credential() Credential {
	return c.credential
}

// URL method builds URL of the secret path.
func (c *Client) URL(path string) (string, error) {
	base, err := url.Parse(c.config.Address)

	if err != nil {
		return "", fmt.Errorf("%s: %s", errPref, err)
	}

	b := urlbuilder.New().
		Protocol(base.Scheme).
		Domain(base.Host)

	if base.User != nil {
		b.Username(base.User.Username())

		if password, ok := base.User.Password(); ok {
			b.Password(password)
		}
	}

	if prefix := strings.Trim(base.Path, "/"); prefix != "" {
		b.Path(prefix)
	}

	return b.Path(c.config.APIVersion).Path(path).Build()
}

// Read method fetches secret and returns the unwrapped payload. Calls are
// independent, nothing is cached or retried.
func (c *Client) Read(ctx context.Context, path string) (map[string]any, error) {
	u, err := c.URL(path)

	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(c.config.AuthHeader, c.credential.Token).
		SetHeader("Accept", "application/json").
		Get(u)

	if err != nil {
		return nil, c.failed(&FetchError{URL: u, Reason: ReasonTransport, Err: err})
	}

	if !resp.IsSuccess() {
		return nil, c.failed(&FetchError{
			URL:        u,
			StatusCode: resp.StatusCode(),
			Reason:     ReasonStatus,
		})
	}

	secrets, err := unwrap(resp.Body())

	if err != nil {
		return nil, c.failed(&FetchError{URL: u, Reason: ReasonEnvelope, Err: err})
	}

	c.logger.Debug("secret fetched",
		zap.String("url", u),
		zap.Int("keys", len(secrets)),
	)

	c.metrics.fetch(outcomeSuccess)

	return secrets, nil
}

func (c *Client) failed(err *FetchError) error {
	c.logger.Debug("secret fetch failed",
		zap.String("url", err.URL),
		zap.Int("status", err.StatusCode),
		zap.String("reason", err.Reason),
		zap.Error(err.Err),
	)

	c.metrics.fetch(outcomeFailure)

	return err
}

type envelope struct {
	Data *struct {
		Data map[string]any `json:"data"`
	} `json:"data"`
}

func unwrap(body []byte) (map[string]any, error) {
	var env envelope
	err := json.Unmarshal(body, &env)

	if err != nil {
		return nil, err
	}

	if env.Data == nil || env.Data.Data == nil {
		return nil, errMissingData
	}

	return env.Data.Data, nil
}

// GetSecrets function reads secret and validates it with the schema.
// Validation errors are returned as is.
func GetSecrets[T any](ctx context.Context, reader SecretReader, path string,
	schema vaultconf.Schema[T]) (T, error) {

	raw, err := reader.Read(ctx, path)

	if err != nil {
		var zero T
		return zero, err
	}

	return vaultconf.Validate(raw, schema)
}
