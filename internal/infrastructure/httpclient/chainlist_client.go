package httpclient

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
)

// DefaultChainlistURL is the public chain metadata listing service.
const DefaultChainlistURL = "https://chainid.network/chains.json"

const defaultFetchTimeout = 15 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ChainlistClient fetches chain descriptors from a chainlist-style JSON
// endpoint. It implements port.ChainMetadataSource.
type ChainlistClient struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
	logger  port.Logger
}

var _ port.ChainMetadataSource = (*ChainlistClient)(nil)

// NewChainlistClient creates a client for the given listing URL. An empty
// baseURL falls back to DefaultChainlistURL, a zero timeout to 15s.
func NewChainlistClient(baseURL string, timeout time.Duration, log port.Logger) *ChainlistClient {
	if baseURL == "" {
		baseURL = DefaultChainlistURL
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &ChainlistClient{
		baseURL: baseURL,
		timeout: timeout,
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		logger: log,
	}
}

// FetchChainList downloads and decodes the remote chain list. The caller's
// context deadline wins over the client timeout when it is sooner.
func (c *ChainlistClient) FetchChainList(ctx context.Context) ([]entity.ChainDescriptor, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("fetch chain list from %s: %w", c.baseURL, context.DeadlineExceeded)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("fetch chain list from %s: %w", c.baseURL, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("fetch chain list from %s: unexpected status %d", c.baseURL, resp.StatusCode())
	}

	var descriptors []entity.ChainDescriptor
	if err := json.Unmarshal(resp.Body(), &descriptors); err != nil {
		return nil, fmt.Errorf("decode chain list from %s: %w", c.baseURL, err)
	}

	c.logger.Debug("Fetched remote chain list",
		"url", c.baseURL,
		"chains", len(descriptors),
		"elapsed", time.Since(started).String(),
	)
	return descriptors, nil
}
