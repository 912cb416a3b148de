package remote

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	// probeTimeout bounds a single connectivity check.
	probeTimeout = 3 * time.Second

	// DefaultProbeTTL is how long a probe verdict is reused before the
	// endpoint is contacted again.
	DefaultProbeTTL = 5 * time.Second
)

// Probe implements Connectivity by issuing a HEAD request against the
// remote health endpoint and caching the verdict briefly. A Go process has
// no runtime online/offline signal, so reachability of the backend is the
// signal.
type Probe struct {
	endpoint string
	ttl      time.Duration
	http     *http.Client

	mu        sync.Mutex
	lastCheck time.Time
	online    bool
}

// NewProbe creates a connectivity probe for the given health endpoint.
func NewProbe(endpoint string) *Probe {
	return &Probe{
		endpoint: endpoint,
		ttl:      DefaultProbeTTL,
		http:     &http.Client{Timeout: probeTimeout},
	}
}

// Online implements Connectivity.
func (p *Probe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastCheck) < p.ttl {
		return p.online
	}

	p.online = p.check()
	p.lastCheck = time.Now()
	return p.online
}

func (p *Probe) check() bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()

	// Any response at all means the network path is up; auth errors still
	// prove reachability.
	return resp.StatusCode < 500
}
