package network

import (
	"context"
	"io"
	"math/rand"
	"net/url"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"
)

const htmlFetchRetries = 3

// HTMLClient fetches rendered HTML surfaces that rate-limit aggressively.
// It presents a Chrome TLS fingerprint, rotates the user agent on every
// attempt and backs off with randomized pauses, longer after a 429/403.
type HTMLClient struct {
	http    tls_client.HttpClient
	agent   AgentProvider
	proxies *ProxyPool
	retries int
	rng     *rand.Rand
	rngMu   sync.Mutex
	sleep   func(time.Duration)
	logger  zerolog.Logger
}

func NewHTMLClient(agent AgentProvider, proxies *ProxyPool, logger zerolog.Logger) (*HTMLClient, error) {
	jar, _ := fhttpcookiejar.New(nil)

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(20),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	return &HTMLClient{
		http:    client,
		agent:   agent,
		proxies: proxies,
		retries: htmlFetchRetries,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   time.Sleep,
		logger:  logger,
	}, nil
}

// FetchText GETs target and returns the body of a 200 response with content.
// Any other outcome pauses and retries; exhausting the budget yields
// ErrNoData.
func (c *HTMLClient) FetchText(ctx context.Context, target string) (string, error) {
	for attempt := 0; attempt < c.retries; attempt++ {
		req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
		if err != nil {
			return "", err
		}
		c.applyHeaders(req)
		proxy := c.rotateProxy()

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Debug().Str("url", target).Int("attempt", attempt+1).Err(err).Msg("html fetch error")
			c.pause(700*time.Millisecond, time.Second)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if proxy != nil {
			c.proxies.Report(proxy, resp.StatusCode)
		}

		if readErr == nil && resp.StatusCode == fhttp.StatusOK && len(body) > 0 {
			return string(body), nil
		}

		if resp.StatusCode == fhttp.StatusTooManyRequests || resp.StatusCode == fhttp.StatusForbidden {
			c.logger.Debug().Str("url", target).Int("status", resp.StatusCode).Msg("source rejection, backing off")
			c.pause(1500*time.Millisecond, 2500*time.Millisecond)
		} else {
			c.pause(500*time.Millisecond, time.Second)
		}
	}
	return "", ErrNoData
}

func (c *HTMLClient) applyHeaders(req *fhttp.Request) {
	req.Header.Set("User-Agent", c.agent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (c *HTMLClient) rotateProxy() *url.URL {
	if c.proxies == nil {
		return nil
	}
	proxy := c.proxies.Next()
	if proxy != nil {
		_ = c.http.SetProxy(proxy.String())
	}
	return proxy
}

// pause sleeps for base plus a random slice of jitter.
func (c *HTMLClient) pause(base, jitter time.Duration) {
	c.rngMu.Lock()
	extra := time.Duration(c.rng.Float64() * float64(jitter))
	c.rngMu.Unlock()
	c.sleep(base + extra)
}
