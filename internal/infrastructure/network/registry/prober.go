package registry

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"network_registry/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// probeClient is shared by all registries; probes are small one-shot POSTs.
var probeClient = &fasthttp.Client{
	MaxIdleConnDuration: 30 * time.Second,
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

// TestConnection sends an eth_chainId probe to url and reports whether the
// endpoint answered within the timeout with the expected chain id. Every
// failure mode (transport error, timeout, non-2xx status, RPC error payload,
// chain-id mismatch) collapses to false; the caller only needs go/no-go.
// The cache is never touched.
func (r *Registry) TestConnection(ctx context.Context, url string, expectedChainID string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = r.probeTimeout
	}

	expected, err := NormalizeChainID(expectedChainID)
	if err != nil {
		r.logger.Debug("Probe skipped, expected chain id is invalid", "url", url, "expected", expectedChainID)
		return false
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return false
	}

	body, err := json.Marshal(rpcRequest{Jsonrpc: "2.0", Method: "eth_chainId", Params: []any{}, ID: 1})
	if err != nil {
		return false
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	started := time.Now()
	err = probeClient.DoTimeout(req, resp, timeout)
	metrics.RPCProbeDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		outcome := "transport_error"
		if errors.Is(err, fasthttp.ErrTimeout) {
			outcome = "timeout"
		}
		metrics.RPCProbesTotal.WithLabelValues(outcome).Inc()
		r.logger.Debug("Probe failed", "url", url, "error", err)
		return false
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		metrics.RPCProbesTotal.WithLabelValues("bad_status").Inc()
		r.logger.Debug("Probe returned bad status", "url", url, "status", status)
		return false
	}

	var decoded rpcResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil || decoded.Error != nil {
		metrics.RPCProbesTotal.WithLabelValues("rpc_error").Inc()
		r.logger.Debug("Probe returned rpc error payload", "url", url)
		return false
	}

	got, err := NormalizeChainID(decoded.Result)
	if err != nil || got != expected {
		metrics.RPCProbesTotal.WithLabelValues("chain_mismatch").Inc()
		r.logger.Debug("Probe chain id mismatch", "url", url, "expected", expected, "got", decoded.Result)
		return false
	}

	metrics.RPCProbesTotal.WithLabelValues("ok").Inc()
	return true
}

// FindFirstWorkingRPC probes urls strictly in order and returns the first
// endpoint that passes. Sequential on purpose: the first listed working
// endpoint wins, not the first to respond, so caller preference order is the
// tie-break rule.
func (r *Registry) FindFirstWorkingRPC(ctx context.Context, urls []string, expectedChainID string, timeout time.Duration) (string, bool) {
	if timeout <= 0 {
		timeout = r.resolveProbeTimeout
	}
	for _, url := range urls {
		if ctx.Err() != nil {
			return "", false
		}
		if r.TestConnection(ctx, url, expectedChainID, timeout) {
			return url, true
		}
	}
	return "", false
}
