package recon

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/vulnverified/subfuzz/internal/engine"
)

const (
	defaultMaxRedirects = 3
	httpProbeMaxBody    = 64 * 1024
)

var errRedirectLoop = errors.New("too many redirects")

// Prober implements engine.HTTPProber. HTTPS is tried first; plain HTTP is
// tried only when HTTPS fails at the transport level.
type Prober struct {
	UserAgent    string
	Timeout      time.Duration // per scheme attempt
	MaxRedirects int

	once   sync.Once
	client *http.Client
}

func (p *Prober) init() {
	p.once.Do(func() {
		maxRedirects := p.MaxRedirects
		if maxRedirects <= 0 {
			maxRedirects = defaultMaxRedirects
		}
		p.client = &http.Client{
			Timeout: p.Timeout,
			Transport: &http.Transport{
				TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
				DialContext:         (&net.Dialer{Timeout: p.Timeout}).DialContext,
				TLSHandshakeTimeout: p.Timeout,
				DisableKeepAlives:   true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return errRedirectLoop
				}
				return nil
			},
		}
	})
}

// Probe returns the first scheme that produced any HTTP status code.
func (p *Prober) Probe(ctx context.Context, host string) engine.Probe {
	p.init()

	probe := engine.Probe{Name: host}
	timeouts := 0
	for _, scheme := range []string{"https", "http"} {
		status, length, err := p.fetch(ctx, scheme+"://"+host)
		if err == nil {
			probe.Scheme = scheme
			probe.StatusCode = status
			probe.ContentLength = length
			probe.Error = engine.KindNone
			return probe
		}
		if errors.Is(err, errRedirectLoop) {
			probe.Scheme = scheme
			probe.Error = engine.KindRedirectLoop
			return probe
		}
		if isTimeout(err) {
			timeouts++
		}
		if ctx.Err() != nil {
			break
		}
	}

	probe.Error = engine.KindUnreachable
	if timeouts == 2 {
		probe.Error = engine.KindTimeout
	}
	return probe
}

// fetch returns the status code and content length of url. The length
// falls back to the bytes read when the server sends no Content-Length.
func (p *Prober) fetch(ctx context.Context, url string) (int, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	length := resp.ContentLength
	n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, httpProbeMaxBody))
	if length < 0 && n < httpProbeMaxBody {
		length = n
	}
	return resp.StatusCode, length, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
