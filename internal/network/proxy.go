package network

import (
	"net/url"
	"sync"
	"time"
)

// ProxyPool hands out proxies round-robin, skipping any that recently drew a
// rate-limit or auth-wall status. Next returns nil when no usable proxy
// remains, in which case requests go out directly.
type ProxyPool struct {
	proxies     []*url.URL
	banFor      time.Duration
	bannedUntil map[string]time.Time
	next        int
	mu          sync.Mutex
}

func NewProxyPool(raw []string, banFor time.Duration) (*ProxyPool, error) {
	pool := &ProxyPool{
		banFor:      banFor,
		bannedUntil: map[string]time.Time{},
	}
	for _, proxy := range raw {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, err
		}
		pool.proxies = append(pool.proxies, u)
	}
	return pool, nil
}

func (p *ProxyPool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	for range p.proxies {
		proxy := p.proxies[p.next]
		p.next = (p.next + 1) % len(p.proxies)
		if !p.isBanned(proxy) {
			return proxy
		}
	}
	return nil
}

// Report bans a proxy for the configured window when the response status
// indicates the source rejected it.
func (p *ProxyPool) Report(proxy *url.URL, status int) {
	if proxy == nil {
		return
	}
	if status != 403 && status != 429 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bannedUntil[proxy.String()] = time.Now().Add(p.banFor)
}

func (p *ProxyPool) isBanned(proxy *url.URL) bool {
	until, ok := p.bannedUntil[proxy.String()]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(p.bannedUntil, proxy.String())
		return false
	}
	return true
}
