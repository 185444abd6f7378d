package fetch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	promconfig "github.com/prometheus/common/config"

	"github.com/basho-labs/riak-exporter/types"
)

// Error wraps any failure to retrieve or decode an upstream stats
// document. It carries the upstream URL alongside the cause.
type Error struct {
	URL   string
	Cause error
}

func (e *Error) Error() string { return fmt.Sprintf("fetch %s: %s", e.URL, e.Cause) }

func (e *Error) Unwrap() error { return e.Cause }

// Timeout reports whether the failure was the per-fetch deadline
// elapsing. Timeouts follow the same propagation policy as any other
// fetch failure.
func (e *Error) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(e.Cause, &nerr) && nerr.Timeout()
}

// ErrDecode marks a response body that was not a JSON object.
var ErrDecode = errors.New("decode stats response")

const maxBodySize = 32 << 20

// Client fetches JSON stats documents over HTTP. One Client is shared by
// all scrapes; it holds no per-request state.
type Client struct {
	client *http.Client
	log    log.Logger
}

func NewClient(logger log.Logger) (*Client, error) {
	httpClient, err := promconfig.NewClientFromConfig(promconfig.DefaultHTTPClientConfig, "riak_stats")
	if err != nil {
		return nil, err
	}
	return &Client{
		client: httpClient,
		log:    log.With(logger, "component", "fetch"),
	}, nil
}

// Fetch performs a single GET against url bounded by timeout and returns
// the body as a document. There are no retries; retry policy, if any,
// belongs to the caller.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) (types.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		scanner := bufio.NewScanner(io.LimitReader(resp.Body, 1_000))
		line := ""
		if scanner.Scan() {
			line = scanner.Text()
		}
		return nil, &Error{URL: url, Cause: fmt.Errorf("server returned HTTP status %s: %s", resp.Status, line)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{URL: url, Cause: err}
	}
	if !isJSONObject(body) {
		level.Debug(c.log).Log("msg", "upstream returned a non-object body", "url", url)
		return nil, &Error{URL: url, Cause: ErrDecode}
	}
	return types.Document(body), nil
}

// isJSONObject checks that body is syntactically valid JSON whose top
// level is an object. The flattener walks the raw bytes and relies on
// this holding.
func isJSONObject(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(body)
}
