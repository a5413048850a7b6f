// Package source talks to the telemetry backend over its HTTP query API.
// The backend speaks the Prometheus instant-query wire format; any server
// implementing that shape works as a source.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/config"
)

// ErrNoData means the query succeeded but matched no series. Callers
// treat it as "nothing to record this tick", not a failure.
var ErrNoData = errors.New("source: query returned no data")

// Result is the scalar outcome of one instant query.
type Result struct {
	// Value is the sample exactly as the source rendered it. It is kept
	// as a string so storage never loses precision to a float round-trip.
	Value string
	// Timestamp is the source-side evaluation time in seconds.
	Timestamp float64
}

// Client issues instant queries against one source base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

func New(p Params) *Client {
	return &Client{
		baseURL: p.Config.SourceURL,
		http:    &http.Client{Timeout: p.Config.FetchTimeout},
		log:     p.Log.Named("source.client"),
	}
}

// queryResponse mirrors the instant-query envelope. Only the first
// result's value is consumed.
type queryResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string `json:"resultType"`
		Result     []struct {
			Value []json.RawMessage `json:"value"`
		} `json:"result"`
	} `json:"data"`
}

// Query evaluates the expression and returns its first scalar result.
// The request inherits the context's deadline on top of the client's
// own timeout.
func (c *Client) Query(ctx context.Context, expr string) (Result, error) {
	endpoint := fmt.Sprintf("%s/api/v1/query?query=%s", c.baseURL, url.QueryEscape(expr))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("source: query %q: %w", expr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("source: query %q: unexpected status %d", expr, resp.StatusCode)
	}

	var body queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("source: decode response: %w", err)
	}

	if body.Status != "success" {
		return Result{}, fmt.Errorf("source: query %q: status %q", expr, body.Status)
	}
	if len(body.Data.Result) == 0 {
		return Result{}, ErrNoData
	}

	value := body.Data.Result[0].Value
	if len(value) != 2 {
		return Result{}, fmt.Errorf("source: query %q: malformed value pair", expr)
	}

	var out Result
	if err := json.Unmarshal(value[0], &out.Timestamp); err != nil {
		return Result{}, fmt.Errorf("source: decode value timestamp: %w", err)
	}
	if err := json.Unmarshal(value[1], &out.Value); err != nil {
		return Result{}, fmt.Errorf("source: decode value: %w", err)
	}
	return out, nil
}

var Module = fx.Module("source.client",
	fx.Provide(New),
)
