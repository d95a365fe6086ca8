package highlights

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/Seklfreak/highlights/metrics"
	"github.com/go-redis/cache"
	"github.com/sirupsen/logrus"
)

// httpDoer is satisfied by *http.Client and *pester.Client
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProber requests a URL and accepts it if the server answers with an image content type
type HTTPProber struct {
	client    httpDoer
	userAgent string
	log       *logrus.Entry
}

func NewHTTPProber(client httpDoer, userAgent string, log *logrus.Entry) *HTTPProber {
	return &HTTPProber{client: client, userAgent: userAgent, log: log}
}

func (p *HTTPProber) ProbeImage(ctx context.Context, link string) (string, bool) {
	metrics.ImageProbes.Add(1)

	request, err := http.NewRequest(http.MethodGet, link, nil)
	if err != nil {
		return "", false
	}
	request = request.WithContext(ctx)
	request.Header.Set("User-Agent", p.userAgent)

	response, err := p.client.Do(request)
	if err != nil {
		p.log.WithField("url", link).Debug("image probe failed: ", err.Error())
		return "", false
	}
	defer response.Body.Close()
	// drain a little so the connection can be reused, the body itself is not needed
	io.CopyN(ioutil.Discard, response.Body, 512)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", false
	}
	if !strings.HasPrefix(strings.ToLower(response.Header.Get("Content-Type")), "image/") {
		return "", false
	}
	return link, true
}

// probeCache is satisfied by *cache.Codec
type probeCache interface {
	Get(key string, object interface{}) error
	Set(item *cache.Item) error
}

type probeResult struct {
	URL     string
	IsImage bool
}

// CachedProber remembers the results of another prober, messages highlighted again
// or re-rendered don't cause new requests
type CachedProber struct {
	cache      probeCache
	next       ImageProber
	expiration time.Duration
	log        *logrus.Entry
}

func NewCachedProber(codec probeCache, next ImageProber, expiration time.Duration, log *logrus.Entry) *CachedProber {
	return &CachedProber{cache: codec, next: next, expiration: expiration, log: log}
}

func (p *CachedProber) ProbeImage(ctx context.Context, link string) (string, bool) {
	key := probeCacheKey(link)

	var cached probeResult
	err := p.cache.Get(key, &cached)
	if err == nil {
		return cached.URL, cached.IsImage
	}
	if err != cache.ErrCacheMiss {
		p.log.WithField("url", link).Warn("reading image probe cache failed: ", err.Error())
	}

	imageURL, ok := p.next.ProbeImage(ctx, link)
	if ctx.Err() != nil {
		// an aborted probe says nothing about the URL
		return imageURL, ok
	}

	err = p.cache.Set(&cache.Item{
		Key:        key,
		Object:     probeResult{URL: imageURL, IsImage: ok},
		Expiration: p.expiration,
	})
	if err != nil {
		p.log.WithField("url", link).Warn("writing image probe cache failed: ", err.Error())
	}
	return imageURL, ok
}

func probeCacheKey(link string) string {
	sum := sha1.Sum([]byte(link))
	return "highlights:image-probe:" + hex.EncodeToString(sum[:])
}
