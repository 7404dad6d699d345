package network

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrNoData reports that a fetch produced nothing usable within its retry
// budget. Callers treat it as absence for that unit of work, never as a
// failure of the whole run.
var ErrNoData = errors.New("no data")

// JSONClient fetches JSON API payloads. Only transport failures (timeouts,
// connection errors) are retried, with a linearly growing pause; an HTTP
// error status or an undecodable body yields ErrNoData immediately.
type JSONClient struct {
	rest    *resty.Client
	agent   AgentProvider
	retries int
	base    time.Duration
	step    time.Duration
	sleep   func(time.Duration)
	logger  zerolog.Logger
}

func NewJSONClient(agent AgentProvider, retries int, timeout time.Duration, logger zerolog.Logger) *JSONClient {
	return &JSONClient{
		rest:    resty.New().SetTimeout(timeout),
		agent:   agent,
		retries: retries,
		base:    time.Second,
		step:    500 * time.Millisecond,
		sleep:   time.Sleep,
		logger:  logger,
	}
}

func (c *JSONClient) GetJSON(ctx context.Context, target string, headers map[string]string, out any) error {
	return c.do(ctx, resty.MethodGet, target, headers, nil, out)
}

func (c *JSONClient) PostJSON(ctx context.Context, target string, headers map[string]string, body any, out any) error {
	return c.do(ctx, resty.MethodPost, target, headers, body, out)
}

func (c *JSONClient) do(ctx context.Context, method, target string, headers map[string]string, body any, out any) error {
	for attempt := 0; ; attempt++ {
		req := c.rest.R().
			SetContext(ctx).
			SetHeaders(headers).
			SetHeader("User-Agent", c.agent())
		if _, ok := headers["Accept"]; !ok {
			req.SetHeader("Accept", "application/json")
		}
		if body != nil {
			req.SetHeader("Content-Type", "application/json")
			req.SetBody(body)
		}

		resp, err := req.Execute(method, target)
		if err != nil {
			if attempt < c.retries && isTransient(err) {
				pause := c.base + time.Duration(attempt)*c.step
				c.logger.Debug().Str("url", target).Int("attempt", attempt+1).
					Dur("pause", pause).Err(err).Msg("transient fetch error, retrying")
				c.sleep(pause)
				continue
			}
			c.logger.Debug().Str("url", target).Err(err).Msg("fetch failed")
			return ErrNoData
		}
		if resp.IsError() {
			c.logger.Debug().Str("url", target).Int("status", resp.StatusCode()).Msg("fetch rejected")
			return ErrNoData
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			c.logger.Debug().Str("url", target).Err(err).Msg("malformed payload")
			return ErrNoData
		}
		return nil
	}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
