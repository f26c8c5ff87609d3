// Package geocode resolves map points to human readable addresses.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/golang/groupcache/lru"
	"github.com/rs/zerolog"
)

// Client is a reverse geocoder backed by a Nominatim compatible service.
//
// Lookups never fail: when the address cannot be resolved the location
// carries its coordinates as the address instead.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client

	mu    sync.Mutex
	cache *lru.Cache
}

// New returns geocode client configured from config.
//
// A zero GeocoderTimeout leaves requests bounded by their context only. A
// non-positive GeocoderCacheSize disables caching.
func New(config configpkg.Config) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(config.GeocoderURL, "/"),
		userAgent: config.GeocoderUserAgent,
		http:      &http.Client{Timeout: config.GeocoderTimeout},
	}

	if config.GeocoderCacheSize > 0 {
		c.cache = lru.New(config.GeocoderCacheSize)
	}

	return c
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Fallback returns the address used when a point cannot be resolved.
func Fallback(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + ", " + strconv.FormatFloat(lng, 'f', -1, 64)
}

// Reverse returns the location of the given point with its resolved address.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) domain.Location {
	l := zerolog.Ctx(ctx)

	loc := domain.Location{Lat: lat, Lng: lng}
	key := Fallback(lat, lng)

	if address, ok := c.cached(key); ok {
		loc.Address = address
		return loc
	}

	address, err := c.lookup(ctx, lat, lng)
	if err != nil {
		l.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("reverse geocoding failed")

		loc.Address = key

		return loc
	}

	c.store(key, address)
	loc.Address = address

	return loc
}

func (c *Client) lookup(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("geocoder responded with status %d", res.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}

	address := strings.TrimSpace(body.DisplayName)
	if address == "" {
		return "", fmt.Errorf("geocoder returned no address")
	}

	return address, nil
}

func (c *Client) cached(key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(key)
	if !ok {
		return "", false
	}

	return v.(string), true
}

func (c *Client) store(key, address string) {
	if c.cache == nil {
		return
	}

	c.mu.Lock()
	c.cache.Add(key, address)
	c.mu.Unlock()
}
